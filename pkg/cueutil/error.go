// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned by CheckFileSize.
var ErrFileTooLarge = errors.New("file too large")

type (
	// FieldError is one CUE failure, located by a path such as
	// "output.formats[2]". Path is empty for failures not tied to a field.
	FieldError struct {
		Path    string
		Message string
	}

	// SchemaError collects the failures of compiling a schema or validating
	// data against it. Label names the schema or file.
	SchemaError struct {
		Label  string
		Fields []FieldError
		cause  error
	}

	// FileTooLargeError wraps ErrFileTooLarge.
	FileTooLargeError struct {
		Name    string
		Size    int
		MaxSize int64
	}
)

// Error renders a single failure as "<label>: <path>: <message>" and
// several as an indented list.
func (e *SchemaError) Error() string {
	switch len(e.Fields) {
	case 0:
		return fmt.Sprintf("%s: %v", e.Label, e.cause)
	case 1:
		return e.Label + ": " + e.Fields[0].String()
	}
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.Label, strings.Join(lines, "\n  "))
}

// Unwrap returns the underlying CUE error.
func (e *SchemaError) Unwrap() error { return e.cause }

func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.Name, e.Size, e.MaxSize)
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// newSchemaError splits err into one FieldError per CUE failure. It returns
// nil for a nil err.
func newSchemaError(err error, label string) error {
	if err == nil {
		return nil
	}

	se := &SchemaError{Label: label, cause: err}
	for _, e := range cueerrors.Errors(err) {
		path := joinPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE repeats the path at the start of some messages.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		se.Fields = append(se.Fields, FieldError{Path: path, Message: msg})
	}
	return se
}

// joinPath renders ["output", "formats", "2"] as "output.formats[2]".
func joinPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			sb.WriteString("[" + part + "]")
		case i > 0:
			sb.WriteString("." + part)
		default:
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// CheckFileSize returns a *FileTooLargeError when data is larger than
// maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, name string) error {
	if int64(len(data)) > maxSize {
		return &FileTooLargeError{Name: name, Size: len(data), MaxSize: maxSize}
	}
	return nil
}
