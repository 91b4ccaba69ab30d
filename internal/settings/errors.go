// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrSettings is matched by every error this package returns.
	ErrSettings = errors.New("settings error")
	// ErrFile is matched by *FileError.
	ErrFile = errors.New("settings file error")
	// ErrValidation is matched by *ValidationError.
	ErrValidation = errors.New("settings validation error")
	// ErrOverride is matched by *OverrideError.
	ErrOverride = errors.New("settings override error")
	// ErrRegistry is matched by *RegistryError.
	ErrRegistry = errors.New("settings registry error")
)

type (
	// FileError is returned when a settings file cannot be read or parsed.
	// Line and Column are 1-based and zero when unknown.
	FileError struct {
		Path   string
		Reason string
		Line   int
		Column int
		Err    error
	}

	// ValidationError is returned when a namespace fails schema validation.
	// SourceLayer names the highest-priority layer that contributed data to
	// the namespace ("package", "project", "user" or "override").
	ValidationError struct {
		Namespace   string
		SourceLayer string
		Err         error
	}

	// OverrideError is returned when an override addresses a key that does
	// not exist in the configuration.
	OverrideError struct {
		Key    string
		Reason string
	}

	// RegistryError is returned for duplicate or unknown namespaces.
	RegistryError struct {
		Namespace string
		Reason    string
	}
)

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load %s (line %d, column %d): %s", e.Path, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying read or parse error.
func (e *FileError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSettings or ErrFile.
func (e *FileError) Is(target error) bool {
	return target == ErrSettings || target == ErrFile
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation failed for '%s' namespace", e.Namespace)
	if e.SourceLayer != "" {
		msg += fmt.Sprintf(" (from %s layer)", e.SourceLayer)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the schema error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSettings or ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrSettings || target == ErrValidation
}

// Error implements the error interface for OverrideError.
func (e *OverrideError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid override key %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("override key path does not exist: %s", e.Key)
}

// Is reports whether target is ErrSettings or ErrOverride.
func (e *OverrideError) Is(target error) bool {
	return target == ErrSettings || target == ErrOverride
}

// Error implements the error interface for RegistryError.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry error for namespace '%s': %s", e.Namespace, e.Reason)
}

// Is reports whether target is ErrSettings or ErrRegistry.
func (e *RegistryError) Is(target error) bool {
	return target == ErrSettings || target == ErrRegistry
}
