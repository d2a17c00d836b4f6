package main

import (
	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/config"
	"github.com/fortyninthit/episodes/internal/output"
	"github.com/fortyninthit/episodes/internal/prompt"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the prompt templates and where each comes from",
		Long: `List the prompt templates the tag service is driven by.

A template in the site's .episodes/templates directory wins over one in the
global config directory, which wins over the built-in set.

Examples:
  episode templates          # Human-readable
  episode templates --json   # For scripting`,
		Args: cobra.NoArgs,
		RunE: runTemplates,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	root, err := config.SiteRoot()
	if err != nil {
		err = output.NewSystemErrorWithCause("failed to resolve the site root", err)
		printer.Error(err)
		return err
	}
	templates := prompt.NewResolver(root, config.Dir()).List()

	if printer.IsJSON() {
		return printer.Success(map[string]any{"templates": templates})
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{t.Name, t.Source, t.Description, t.Overrides})
	}
	printer.Table([]string{"Name", "Source", "Description", "Overrides"}, rows)
	return nil
}
