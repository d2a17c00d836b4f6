package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/output"
)

// draftRow is one draft in JSON output.
type draftRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Episode     int    `json:"episode,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	SavedAt     string `json:"saved_at"`
}

// newDraftsCmd creates the drafts command.
func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List saved episode drafts",
		Long: `List saved episode drafts, newest first.

Drafts are resumed, edited and deleted from the interactive session
(run episode with no arguments).

Examples:
  episode drafts          # Table of drafts
  episode drafts --json   # For scripting`,
		Args: cobra.NoArgs,
		RunE: runDrafts,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runDrafts(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	s, err := openSite(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	entries, stats, err := s.drafts().ListWithStats()
	if err != nil {
		printer.Error(err)
		return err
	}

	rows := make([]draftRow, 0, len(entries))
	for _, entry := range entries {
		row := draftRow{
			ID:      entry.ID,
			Title:   entry.Draft.DisplayName(),
			Episode: entry.Draft.EpisodeNum,
			SavedAt: entry.SavedAt.Format(time.RFC3339),
		}
		if !entry.Draft.PublishDate.IsZero() {
			row.PublishDate = entry.Draft.PublishDate.String()
		}
		rows = append(rows, row)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"count":   len(rows),
			"skipped": stats.Skipped,
			"drafts":  rows,
		})
	}

	if len(rows) == 0 {
		printer.Println("No saved drafts.")
		return nil
	}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{row.ID, row.Title, row.PublishDate, row.SavedAt})
	}
	printer.Table([]string{"ID", "Title", "Publish date", "Saved"}, table)
	if stats.Skipped > 0 {
		printer.Warn("%d draft files could not be read", stats.Skipped)
	}
	return nil
}
