// Package cmd implements the klisp command-line interface, built on
// spf13/cobra the way the teacher wires its own subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the klisp release version, set at build time via
// -ldflags "-X github.com/klisp/klisp/cmd.Version=...". It defaults to
// "dev" for local builds.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "klisp",
	Short:   "klisp is a small, embeddable Lisp interpreter",
	Version: Version,
}

// Execute runs the root command, exiting the process with status 1 on any
// error surfaced by a subcommand.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("klisp {{.Version}}\n")
}
