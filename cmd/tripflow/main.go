// Package main provides the entry point for the tripflow CLI tool.
package main

import "github.com/chauffeurhq/tripflow/cmd/tripflow/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
