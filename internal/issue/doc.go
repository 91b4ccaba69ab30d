// SPDX-License-Identifier: MPL-2.0

// Package issue turns settings failures into messages a user can act on.
//
// ActionableError records the failed operation, the file, key or namespace
// involved and remediation hints. Every failure class also has a Markdown
// guide in the catalog, rendered with glamour below the error.
package issue
