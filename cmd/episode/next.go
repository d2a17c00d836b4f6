package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/output"
)

// newNextCmd creates the next command.
func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next episode number and publish date",
		Long: `Show the number and publish date a new episode would take.

The number is one more than the highest published episode. The date is the
day after the latest published episode (or the episodeNEXT placeholder),
but never earlier than today.

Examples:
  episode next          # Human-readable
  episode next --json   # For scripting`,
		Args: cobra.NoArgs,
		RunE: runNext,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runNext(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	s, err := openSite(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	slot, err := s.sequencer().Next(s.today())
	if err != nil {
		err = output.NewSystemErrorWithCause("failed to scan published episodes", err)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(slot)
	}
	printer.Box("Next episode", fmt.Sprintf("%s %s\n%s %s",
		printer.Styles().Key.Render("Episode:"), strconv.Itoa(slot.Number),
		printer.Styles().Key.Render("Publish date:"), slot.Date.String()))
	return nil
}
