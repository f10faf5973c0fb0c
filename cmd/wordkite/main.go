// Package main is the single-binary entrypoint for WordKite.
package main

import "github.com/wordkite/wordkite/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
