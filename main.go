// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/dotwell/dotwell/cmd/dotwell"

func main() {
	cmd.Execute()
}
