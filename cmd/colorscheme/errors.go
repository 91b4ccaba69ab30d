// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/config"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/issue"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/watch"
)

// exitInvalidConfig is the exit status of `config validate` for settings
// that fail to load.
const exitInvalidConfig = 2

// errInvalidOverride marks a malformed --set argument.
var errInvalidOverride = errors.New("invalid override")

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. A nil Err means the command already reported the failure.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps err to the issue catalog entry that explains it, or 0
// when none applies.
func classifyError(err error) issue.Id {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, errInvalidOverride), errors.Is(err, config.ErrInvalidLoadOptions):
		return issue.InvalidOverrideFormatId
	case errors.Is(err, settings.ErrFile):
		return issue.SettingsFileInvalidId
	case errors.Is(err, settings.ErrValidation), errors.Is(err, config.ErrInvalidConfig):
		return issue.SettingsValidationFailedId
	case errors.Is(err, settings.ErrOverride), errors.Is(err, errUnknownKey):
		return issue.OverrideKeyNotFoundId
	case errors.Is(err, settings.ErrRegistry):
		return issue.NamespaceRegistrationFailedId
	case errors.Is(err, watch.ErrInvalidWatchConfig), errors.Is(err, errWatch):
		return issue.WatchFailedId
	case errors.Is(err, settings.ErrSettings):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own formatting; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and, when the error is a known kind, the matching
// issue catalog entry.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
