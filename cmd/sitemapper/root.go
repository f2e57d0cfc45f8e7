// Package main provides the entry point for the sitemapper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitemapper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemapper",
		Short: "Generate a sitemap by crawling a JavaScript-rendered website",
		Long: `Sitemapper crawls every page reachable from a seed URL within one web
domain, rendering pages in a headless browser so that links emitted by
client-side scripts are discovered too, and writes the result as a
sitemaps.org 0.9 XML sitemap.

The crawl never leaves the seed's network location (host and port), and
every generated sitemap is re-validated before the tool reports success.`,
		Version:       resolveBuildInfo().version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
