// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/aplus-courses/coursekit/cmd/coursekit"

func main() {
	cmd.Execute()
}
