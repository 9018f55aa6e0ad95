// Package main implements the smed CLI, a virtual banking subject-matter
// expert queried from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smed",
	Short: "Virtual banking subject-matter expert",
	Long: `smed answers banking questions by retrieving evidence from per-domain
knowledge collections, generating one expert answer per domain, and fusing
them into a single cross-domain response with a confidence score.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/smed/config.yaml)")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(historyCmd)
}
