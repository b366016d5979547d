// Package main provides the pagekit command line tool for inspecting the
// command catalog, validating configuration and probing live pages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagekit/pkg/config"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "pagekit",
	Short: "pagekit dispatches page-object commands to a browser",
	Long: `pagekit resolves named page elements to selectors, switches the locate
strategy around every targeted command and drives a Playwright browser.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
}

// loadConfig reads the --config file, or returns the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}
