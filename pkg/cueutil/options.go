// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the largest schema or settings file accepted (5 MiB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// Option configures schema compilation.
	Option func(*options)

	options struct {
		filename    string
		label       string
		maxFileSize int64
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithFilename sets the schema filename used in compile error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLabel sets the prefix used for validation error messages. It defaults
// to the definition name.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// withMaxFileSize overrides DefaultMaxFileSize for the schema source.
func withMaxFileSize(size int64) Option {
	return func(o *options) {
		o.maxFileSize = size
	}
}
