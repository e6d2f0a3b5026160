package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/fetchargs/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fetchargs",
	Short: "Resolver argument and filter tooling",
	Long:  "fetchargs compiles event filter arguments into condition trees and manages condition-type registries.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("fetchargs version %s\n", version))

	rootCmd.AddCommand(cli.NewCompileCmd())
	rootCmd.AddCommand(cli.NewRegistryCmd())
}
