// SPDX-License-Identifier: MPL-2.0

// testsetup discovers marker-annotated test files and assembles them into suites.
package main

import cmd "github.com/invowk/testsetup/cmd/testsetup"

func main() {
	cmd.Execute()
}
