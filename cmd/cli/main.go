// Package main is the entry point for the shelf CLI binary.
package main

import (
	"os"

	cli "shelf-demo/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
