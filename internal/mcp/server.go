// Package mcp provides a Model Context Protocol server for the episode tool.
// It exposes read-only views of the site's episodes and drafts, plus the
// offline tag heuristic, as MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fortyninthit/episodes/internal/draftstore"
	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/sequencer"
)

// Episodes is the read side of the sequencer.
type Episodes interface {
	Episodes() ([]sequencer.Summary, error)
	Next(today episode.Date) (sequencer.Slot, error)
}

// Drafts lists saved drafts.
type Drafts interface {
	List() ([]draftstore.Entry, error)
}

// Sources holds everything the tools read from.
type Sources struct {
	Episodes    Episodes
	Drafts      Drafts
	DefaultTags []string
	TagCount    int
	Today       func() episode.Date
}

// NewServer creates an MCP server with all episode tools registered.
func NewServer(version string, src Sources) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "episode",
		Version: version,
	}, nil)
	registerTools(server, src)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all episode tools to the server.
func registerTools(server *mcp.Server, src Sources) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "next_episode",
		Description: "Show the number and publish date the next episode will take.",
		Annotations: readOnlyAnnotations(),
	}, handleNextEpisode(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_episodes",
		Description: "List published, numbered episodes in publish order. Use last=N for the most recent N.",
		Annotations: readOnlyAnnotations(),
	}, handleListEpisodes(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_drafts",
		Description: "List saved episode drafts, newest first.",
		Annotations: readOnlyAnnotations(),
	}, handleListDrafts(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "heuristic_tags",
		Description: "Suggest extra tags for an episode body using the offline word-frequency heuristic. Never calls a remote service.",
		Annotations: readOnlyAnnotations(),
	}, handleHeuristicTags(src))
}
