// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{
			name:    "file",
			err:     &FileError{Path: "/p/settings.toml", Reason: "bad syntax", Err: cause},
			kind:    ErrFile,
			message: "failed to load /p/settings.toml: bad syntax",
		},
		{
			name:    "file with position",
			err:     &FileError{Path: "a.toml", Reason: "bad", Line: 3, Column: 7},
			kind:    ErrFile,
			message: "failed to load a.toml (line 3, column 7): bad",
		},
		{
			name:    "validation",
			err:     &ValidationError{Namespace: "core", SourceLayer: "user", Err: cause},
			kind:    ErrValidation,
			message: "validation failed for 'core' namespace (from user layer): boom",
		},
		{
			name:    "validation without layer",
			err:     &ValidationError{Namespace: "core", Err: cause},
			kind:    ErrValidation,
			message: "validation failed for 'core' namespace: boom",
		},
		{
			name:    "override",
			err:     &OverrideError{Key: "core.nope"},
			kind:    ErrOverride,
			message: "override key path does not exist: core.nope",
		},
		{
			name:    "override with reason",
			err:     &OverrideError{Key: "core.a.b", Reason: "conflicts with core.a"},
			kind:    ErrOverride,
			message: "invalid override key core.a.b: conflicts with core.a",
		},
		{
			name:    "registry",
			err:     &RegistryError{Namespace: "core", Reason: "namespace already registered"},
			kind:    ErrRegistry,
			message: "registry error for namespace 'core': namespace already registered",
		},
	}

	kinds := []error{ErrFile, ErrValidation, ErrOverride, ErrRegistry}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrSettings)
			for _, kind := range kinds {
				assert.Equal(t, kind == tt.kind, errors.Is(tt.err, kind), "kind %v", kind)
			}
		})
	}

	t.Run("wrapped cause is reachable", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, &FileError{Path: "x", Err: cause}, cause)
		assert.ErrorIs(t, &ValidationError{Namespace: "core", Err: cause}, cause)
		assert.ErrorIs(t, ErrNotConfigured, ErrSettings)
	})
}
