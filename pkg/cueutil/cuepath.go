// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is returned when a CUEPath is empty or malformed.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a dot-separated path into a CUE value, e.g.
	// "generation.saturation_adjustment".
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath fails validation.
	// It wraps ErrInvalidCUEPath for errors.Is() compatibility.
	InvalidCUEPathError struct {
		Value  CUEPath
		Reason string
	}
)

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Segments splits the path on dots.
func (p CUEPath) Segments() []string {
	return strings.Split(string(p), ".")
}

// Validate returns an error when the path is blank or has an empty segment.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p, Reason: "must not be empty"}
	}
	for _, seg := range p.Segments() {
		if strings.TrimSpace(seg) == "" {
			return &InvalidCUEPathError{Value: p, Reason: "contains an empty segment"}
		}
	}
	return nil
}

// Error implements the error interface for InvalidCUEPathError.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }
