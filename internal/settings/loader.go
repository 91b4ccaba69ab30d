// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads and parses a TOML settings file from the OS filesystem.
//
// A missing file is not an error: it returns (nil, false, nil). A file that
// exists but cannot be read or parsed returns a *FileError.
func LoadFile(path string) (tree.Map, bool, error) {
	data, err := os.ReadFile(path)
	return decodeFile(path, data, err)
}

// LoadFS is LoadFile for a file inside fsys.
func LoadFS(fsys fs.FS, path string) (tree.Map, bool, error) {
	data, err := fs.ReadFile(fsys, path)
	return decodeFile(path, data, err)
}

// ParseTOML parses TOML content. path is only used for error messages.
func ParseTOML(path string, data []byte) (tree.Map, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &FileError{Path: path, Reason: "file too large", Err: err}
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		fileErr := &FileError{Path: path, Reason: err.Error(), Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			fileErr.Line, fileErr.Column = decodeErr.Position()
		}
		return nil, fileErr
	}

	m, err := tree.MapFromAny(raw)
	if err != nil {
		return nil, &FileError{Path: path, Reason: err.Error(), Err: err}
	}
	return m, nil
}

func decodeFile(path string, data []byte, readErr error) (tree.Map, bool, error) {
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &FileError{Path: path, Reason: fmt.Sprintf("cannot read file: %v", readErr), Err: readErr}
	}

	m, err := ParseTOML(path, data)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}
