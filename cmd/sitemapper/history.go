package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sitemapper/internal/config"
	"sitemapper/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past crawl runs",
		Long: `History lists previously recorded crawl runs from the local database.
With a run ID argument, it prints the URLs discovered during that run
in discovery order.

Examples:
  # List all recorded runs
  sitemapper history

  # List runs for one domain
  sitemapper history --domain example.com

  # Show the URLs discovered in run 3
  sitemapper history 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("domain", "D", "",
		"Only list runs for this network location (host[:port])")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl history found (run 'sitemapper generate' first): %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showRunURLs(cmd, db, args[0])
	}

	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return err
	}

	return listRuns(cmd, db, domain)
}

// listRuns prints a table of recorded runs.
func listRuns(cmd *cobra.Command, db *database.HistoryDB, domain string) error {
	runs, err := db.ListRuns(cmd.Context(), domain)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s %-25s %-20s %8s %7s %7s %6s\n",
		"ID", "DOMAIN", "STARTED", "ELAPSED", "PAGES", "URLS", "VALID")
	for _, r := range runs {
		fmt.Fprintf(out, "%-4d %-25s %-20s %8s %7d %7d %6t\n",
			r.ID,
			r.Scope,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Elapsed.Round(10*time.Millisecond).String(),
			r.PagesCrawled,
			r.URLCount,
			r.Valid,
		)
	}
	return nil
}

// showRunURLs prints the discovered URL list of one run.
func showRunURLs(cmd *cobra.Command, db *database.HistoryDB, arg string) error {
	runID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", arg, err)
	}

	run, err := db.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	urls, err := db.GetRunURLs(cmd.Context(), runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %d: %s (%d URLs)\n", runID, run.SeedURL, len(urls))
	for _, u := range urls {
		fmt.Fprintf(out, "  %s\n", u)
	}
	return nil
}
