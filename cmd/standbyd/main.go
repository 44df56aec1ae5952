// Package main is the single-binary entrypoint for standbyd, the app
// standby controller daemon.
package main

import "github.com/lumenhost/standbyd/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
