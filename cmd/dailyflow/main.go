// Package main is the entry point for dailyflow. Without a subcommand it
// starts the terminal UI; subcommands cover scripting, reports, backups
// and the reminder daemon.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env next to the binary may carry DAILYFLOW_* overrides.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
