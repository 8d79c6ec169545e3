// main package for the patchup command-line tool
// Package main is the entry point for the patchup CLI.
package main

import "patchup.dev/pkg/patchup/cmd"

func main() {
	cmd.Execute()
}
