package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	episodemcp "github.com/fortyninthit/episodes/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run episode as a Model Context Protocol (MCP) server over stdio.

The tools are read-only: they never publish, save or call a remote service.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "episode": {
        "command": "episode",
        "args": ["serve"]
      }
    }
  }

Available tools: next_episode, list_episodes, list_drafts, heuristic_tags`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSite(cmd)
			if err != nil {
				return err
			}
			server := episodemcp.NewServer(buildVersion(), s.sources())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// sources exposes the site to the MCP tools.
func (s *site) sources() episodemcp.Sources {
	return episodemcp.Sources{
		Episodes:    s.sequencer(),
		Drafts:      s.drafts(),
		DefaultTags: s.settings.DefaultTags,
		TagCount:    s.settings.ExtraTagCount,
		Today:       s.today,
	}
}
