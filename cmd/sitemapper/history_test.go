package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"sitemapper/internal/database"
	"sitemapper/internal/model"
)

// setupHistoryDB creates a temporary database holding one recorded run.
func setupHistoryDB(t *testing.T) (*database.HistoryDB, int64) {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	report := &model.CrawlReport{
		SeedURL:      "https://example.com/",
		Scope:        "example.com",
		StartedAt:    time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		Elapsed:      1500 * time.Millisecond,
		PagesCrawled: 3,
		Discovered: []string{
			"https://example.com/page1",
			"https://example.com/page2",
		},
		SitemapPath: "sitemap.xml",
		URLCount:    2,
		Valid:       true,
	}

	runID, err := db.SaveRun(context.Background(), report)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	return db, runID
}

// newHistoryTestCmd returns a history command wired to a buffer.
func newHistoryTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := NewHistoryCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [run-id]" {
			t.Errorf("expected use 'history [run-id]', got %q", cmd.Use)
		}
	})

	t.Run("has domain flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("domain")
		if flag == nil {
			t.Fatal("expected domain flag")
		}
		if flag.Shorthand != "D" {
			t.Errorf("expected shorthand 'D', got %q", flag.Shorthand)
		}
	})

	t.Run("accepts at most one argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err != nil {
			t.Errorf("unexpected error with no arguments: %v", err)
		}
		if err := cmd.Args(cmd, []string{"1", "2"}); err == nil {
			t.Error("expected error with two arguments")
		}
	})
}

// TestListRuns tests the run listing output.
func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded runs", func(t *testing.T) {
		t.Parallel()

		db, _ := setupHistoryDB(t)
		cmd, buf := newHistoryTestCmd()

		if err := listRuns(cmd, db, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "DOMAIN") {
			t.Error("expected table header")
		}
		if !strings.Contains(output, "example.com") {
			t.Error("expected recorded domain in listing")
		}
		if !strings.Contains(output, "2026-08-27 12:00:00") {
			t.Error("expected run start time in listing")
		}
	})

	t.Run("domain filter excludes other domains", func(t *testing.T) {
		t.Parallel()

		db, _ := setupHistoryDB(t)
		cmd, buf := newHistoryTestCmd()

		if err := listRuns(cmd, db, "other.org"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No recorded runs.") {
			t.Errorf("expected empty listing, got %q", buf.String())
		}
	})
}

// TestShowRunURLs tests the per-run URL listing output.
func TestShowRunURLs(t *testing.T) {
	t.Parallel()

	t.Run("prints URLs in discovery order", func(t *testing.T) {
		t.Parallel()

		db, runID := setupHistoryDB(t)
		cmd, buf := newHistoryTestCmd()

		if err := showRunURLs(cmd, db, "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runID != 1 {
			t.Fatalf("expected first run ID 1, got %d", runID)
		}

		output := buf.String()
		if !strings.Contains(output, "https://example.com/ (2 URLs)") {
			t.Errorf("expected run summary line, got %q", output)
		}
		page1 := strings.Index(output, "https://example.com/page1")
		page2 := strings.Index(output, "https://example.com/page2")
		if page1 == -1 || page2 == -1 || page1 > page2 {
			t.Errorf("expected URLs in discovery order, got %q", output)
		}
	})

	t.Run("missing run is an error", func(t *testing.T) {
		t.Parallel()

		db, _ := setupHistoryDB(t)
		cmd, _ := newHistoryTestCmd()

		if err := showRunURLs(cmd, db, "9999"); err == nil {
			t.Error("expected error for missing run")
		}
	})

	t.Run("non-numeric run ID is an error", func(t *testing.T) {
		t.Parallel()

		db, _ := setupHistoryDB(t)
		cmd, _ := newHistoryTestCmd()

		if err := showRunURLs(cmd, db, "latest"); err == nil {
			t.Error("expected error for non-numeric run ID")
		}
	})
}
