// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ParseScalar interprets a command-line or environment string as a TOML
// value: "1.5" becomes a float64, "16" an int64, "true" a bool and
// "['json', 'css']" a list. Anything that is not a valid TOML value,
// including bare words such as "podman", is returned unchanged.
func ParseScalar(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.ContainsAny(trimmed, "\r\n") {
		return s
	}

	var holder struct {
		V any `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+trimmed), &holder); err != nil || holder.V == nil {
		return s
	}
	return holder.V
}
