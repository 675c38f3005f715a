// Package main is the single-binary entrypoint for Stridr.
package main

import (
	"github.com/joho/godotenv"

	"github.com/stridr-app/stridr/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for STRIDR_HOME and friends; absence is fine.
	_ = godotenv.Load()

	cli.Execute(version)
}
