// Package main is the entry point for the recipes CLI.
package main

import (
	"philcali.me/foodrecipes/cmd/recipes-cli/cmd"
)

func main() {
	cmd.Execute()
}
