// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load settings"},
			want: "failed to load settings",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load settings", Resource: "settings.toml"},
			want: "failed to load settings: settings.toml",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "apply overrides",
				Resource:  "core.nope",
				Cause:     errors.New("key does not exist"),
			},
			want: "failed to apply overrides: core.nope: key does not exist",
		},
		{
			name: "cause without resource",
			err:  &ActionableError{Operation: "watch settings", Cause: errors.New("too many open files")},
			want: "failed to watch settings: too many open files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("load settings").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find *ActionableError")
	}
	if ae.Unwrap() != sentinel {
		t.Error("Unwrap() should return the cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("line 3: expected '='")
	err := NewErrorContext().
		WithOperation("load settings").
		WithResource("settings.toml").
		WithSuggestion("Check the TOML syntax").
		WithSuggestion("Use --verbose").
		Wrap(fmt.Errorf("parse: %w", inner)).
		Build()

	if !err.HasSuggestions() {
		t.Fatal("HasSuggestions() = false, want true")
	}

	short := err.Format(false)
	for _, want := range []string{"failed to load settings", "• Check the TOML syntax", "• Use --verbose"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. line 3") {
		t.Errorf("Format(true) should list the chain:\n%s", verbose)
	}
}

func TestActionableError_FormatFollowsJoinedErrors(t *testing.T) {
	t.Parallel()

	kind := errors.New("invalid override")
	detail := errors.New("missing '='")
	err := NewErrorContext().
		WithOperation("parse --set override").
		Wrap(fmt.Errorf("%w: %w", kind, detail)).
		Build()

	verbose := err.Format(true)
	for _, want := range []string{"2. invalid override", "3. missing '='"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	err := NewErrorContext().WithOperation("watch settings").Build()
	if err == nil || err.HasSuggestions() {
		t.Errorf("unexpected build result: %#v", err)
	}
}

func TestErrorContext_BuildCopiesSuggestions(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("validate settings").WithSuggestion("first")
	first := ctx.Build()
	ctx.WithSuggestion("second")

	if len(first.Suggestions) != 1 {
		t.Errorf("earlier Build() result changed: %v", first.Suggestions)
	}
	if got := ctx.Build().Suggestions; len(got) != 2 {
		t.Errorf("Suggestions = %v, want two", got)
	}
}
