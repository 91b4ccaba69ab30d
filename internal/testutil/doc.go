// SPDX-License-Identifier: MPL-2.0

// Package testutil isolates tests from the developer's own home directory
// and user settings.
package testutil
