// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"strings"

	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"
)

// Key is a fully qualified dot-path setting key: the namespace followed by
// the path inside it, e.g. "core.generation.default_backend".
type Key string

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// Segments splits the key on dots.
func (k Key) Segments() []string {
	return strings.Split(string(k), ".")
}

// Split separates the namespace from the path inside it. ok is false when
// the key has fewer than two segments or any segment is empty.
func (k Key) Split() (namespace string, path cueutil.CUEPath, ok bool) {
	ns, rest, found := strings.Cut(string(k), ".")
	if !found || ns == "" {
		return "", "", false
	}
	path = cueutil.CUEPath(rest)
	if path.Validate() != nil {
		return "", "", false
	}
	return ns, path, true
}

// ParseKey validates s as a setting key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if _, _, ok := k.Split(); !ok {
		return "", &OverrideError{Key: s, Reason: "expected <namespace>.<path> with no empty segments"}
	}
	return k, nil
}
