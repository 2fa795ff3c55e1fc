// Package main provides the envy-safe CLI for checking, syncing and encrypting .env files.
package main

import "github.com/mscno/envysafe/cmd/envy-safe/commands"

func main() {
	commands.Execute(Version)
}
