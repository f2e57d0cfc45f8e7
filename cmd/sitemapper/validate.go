package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sitemapper/internal/sitemap"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sitemap-file>",
		Short: "Check that a sitemap file is structurally valid",
		Long: `Validate parses a sitemap XML file and checks minimal structural
conformance: the document is well-formed, its root is a urlset element
in the sitemaps.org 0.9 namespace, and at least one url entry exists.

Examples:
  sitemapper validate sitemap.xml`,
		Args: cobra.ExactArgs(1),
		RunE: runValidateCmd,
	}
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	data, err := os.ReadFile(args[0]) //nolint:gosec // User-provided sitemap path is intentional
	if err != nil {
		return fmt.Errorf("failed to read sitemap: %w", err)
	}

	v := sitemap.NewValidator(sitemap.WithValidatorLogger(logger))
	if !v.Validate(data) {
		return fmt.Errorf("%s is not a valid sitemap", args[0])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid sitemap\n", args[0])
	return nil
}
