// Package main provides the entry point for the episode CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json flag, local or persistent.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// isVerbose reads the persistent --verbose flag.
func isVerbose(cmd *cobra.Command) bool {
	flag := cmd.Root().PersistentFlags().Lookup("verbose")
	return flag != nil && flag.Value.String() == "true"
}

// useColor reports whether styled output should be enabled for cmd's stdout.
func useColor(cmd *cobra.Command) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return output.IsTTY(cmd.OutOrStdout())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command. Without a subcommand it runs the
// interactive authoring session.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Write and publish numbered 49thIT episodes",
		Long: `Episode - an interactive authoring tool for the 49thIT static site.

Running episode with no arguments starts a session that:
  - Offers saved drafts to resume, or starts a new episode
  - Assigns the next episode number and publish date
  - Collects the title, blurb, body, image and episodeNEXT teaser
  - Suggests tags (remote service, with an offline fallback)
  - Publishes the content file, refreshes the episodeNEXT placeholder
    and regenerates cross-post snippets

Settings are read from episodes.toml in the site root ($EPISODES_ROOT or
the working directory). API keys may live in .env.local, .env or the
per-user config directory.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuthor(cmd)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug logging on stderr")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "site", Title: "Site Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newNextCmd(), "site")
	addGroupedCommand(cmd, newDraftsCmd(), "site")
	addGroupedCommand(cmd, newCrosspostCmd(), "site")
	addGroupedCommand(cmd, newTemplatesCmd(), "site")

	addGroupedCommand(cmd, newServeCmd(), "agent")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
