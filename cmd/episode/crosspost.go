package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/crosspost"
	"github.com/fortyninthit/episodes/internal/output"
)

// newCrosspostCmd creates the crosspost command.
func newCrosspostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crosspost",
		Short: "Regenerate cross-post snippets for every published post",
		Long: `Regenerate the cross-post snippet tree from the published posts.

The output directory is wiped and rebuilt with one file per post and
channel: <crossposts_dir>/<slug>/<channel>.txt. Publishing an episode runs
the same export automatically.

Examples:
  episode crosspost          # Per-channel file counts
  episode crosspost --json   # For scripting`,
		Args: cobra.NoArgs,
		RunE: runCrosspost,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runCrosspost(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	s, err := openSite(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	lk, err := s.lock()
	if err != nil {
		printer.Error(err)
		return err
	}
	defer func() { _ = lk.Release() }()

	result, err := s.exporter().Export()
	if result == nil {
		err = output.NewSystemErrorWithCause("cross-post export failed", err)
		printer.Error(err)
		return err
	}
	if printer.IsJSON() {
		data := map[string]any{
			"root":    result.Root,
			"posts":   result.Posts,
			"skipped": result.Skipped,
			"counts":  result.Counts,
		}
		if err != nil {
			data["error"] = err.Error()
		}
		return printer.Success(data)
	}
	if err != nil {
		printer.Warn("some cross-posts were not written: %v", err)
	}

	rows := make([][]string, 0, len(crosspost.Channels))
	for _, ch := range crosspost.Channels {
		rows = append(rows, []string{ch.Code, ch.Name, strconv.Itoa(result.Count(ch.Code))})
	}
	printer.Table([]string{"Channel", "Name", "Files"}, rows)
	printer.Notice("Generated crossposts for %d posts in %s", result.Posts, result.Root)
	if result.Skipped > 0 {
		printer.Warn("%d posts were skipped", result.Skipped)
	}
	return nil
}
