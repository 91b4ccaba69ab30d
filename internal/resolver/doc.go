// SPDX-License-Identifier: MPL-2.0

// Package resolver resolves settings from every source while recording where
// each value came from.
//
// Five sources are consulted, highest precedence first: command-line
// arguments, COLORSCHEME_* environment variables, the user settings file,
// the project settings file and the package defaults. Every key present in
// any source yields exactly one ResolvedValue naming the winning source and
// the lower-precedence values it overrode. The result backs dry-run reports;
// it is not validated against the namespace schemas.
package resolver
