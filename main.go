// Package main is the entry point for the gameplan CLI tool, which imports
// football game breakdown sheets and computes offensive tendency reports.
package main

import "github.com/pable/go-gameplan/cmd"

func main() {
	cmd.Execute()
}
