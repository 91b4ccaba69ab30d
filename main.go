// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/RandomGenericUsername/color-scheme-generator/cmd/colorscheme"

func main() {
	cmd.Execute()
}
