// Package cli implements the sssctl command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the sssctl command tree around cfg.
func NewRootCommand(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sssctl",
		Short: "sssctl - Shamir secret sharing over elliptic-curve scalar fields",
		Long: `sssctl splits a 32-byte secret into shares with caller-drawn identifiers
and combines selected shares back into the secret.

Supported curves:
  - secp256k1
  - secp256r1 (p256)
  - ed25519`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "",
		"YAML config file")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFormat, "output", "o", string(OutputFormatText),
		"output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.BackendVersion, "backend-version", "",
		"software backend generation (legacy, named, current)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Metrics, "metrics", false,
		"print collected metrics to stderr")

	rootCmd.AddCommand(newVersionCmd(cfg))
	rootCmd.AddCommand(newSplitCmd(cfg))
	rootCmd.AddCommand(newCombineCmd(cfg))
	rootCmd.AddCommand(newRoundTripCmd(cfg))
	rootCmd.AddCommand(newIdentifiersCmd(cfg))
	return rootCmd
}

// Execute runs sssctl with os.Args and returns the process exit code.
func Execute() int {
	cfg := NewConfig()
	if err := NewRootCommand(cfg).Execute(); err != nil {
		printer := NewPrinter(cfg.OutputFormat, os.Stderr)
		_ = printer.PrintError(err) // Error printing to stderr is best-effort
		return 1
	}
	return 0
}
