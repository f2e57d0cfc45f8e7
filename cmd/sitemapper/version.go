package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo is the resolved version metadata of this binary.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// resolveBuildInfo merges the ldflags values with what the Go toolchain
// embedded via debug.ReadBuildInfo, ldflags winning where both are set.
// Fields with no source fall back to "(devel)" / "unknown".
func resolveBuildInfo() buildInfo {
	info := buildInfo{
		version: version,
		commit:  commit,
		date:    date,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.version == "" {
			info.version = bi.Main.Version
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.commit == "" {
					info.commit = shortRevision(setting.Value)
				}
			case "vcs.time":
				if info.date == "" {
					info.date = setting.Value
				}
			}
		}
	}

	if info.version == "" {
		info.version = "(devel)"
	}
	if info.commit == "" {
		info.commit = "unknown"
	}
	if info.date == "" {
		info.date = "unknown"
	}

	return info
}

// shortRevision truncates a VCS revision to the familiar 7-character form.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of sitemapper.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info := resolveBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "sitemapper version %s\n", info.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.date)
		},
	}
}
