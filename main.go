// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Hostmaster.
//
// Usage:
//
//	go run . [flags]
//	./hostmaster [flags]
//
// This launches the Hostmaster CLI. See --help for options.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/toeirei/hostmaster/ui/cli"
)

// version is set at build time using -ldflags, e.g.:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

// main is the entrypoint for the Hostmaster CLI.
func main() {
	if os.Getenv("HOSTMASTER_SHOW_VERSION") == "1" {
		fmt.Fprintf(os.Stderr, "Hostmaster version: %s\n", version)
	}

	if err := cli.Execute(); err != nil {
		log.Printf("Hostmaster CLI error: %v", err)
		os.Exit(1)
	}
}
