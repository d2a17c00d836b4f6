package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/tags"
)

// --- next_episode ---

// NextEpisodeInput is the input for the next_episode tool (no parameters needed).
type NextEpisodeInput struct{}

// NextEpisodeOutput is the output for the next_episode tool.
type NextEpisodeOutput struct {
	Episode     int    `json:"episode"      jsonschema:"next episode number"`
	PublishDate string `json:"publish_date" jsonschema:"publish date (YYYY-MM-DD)"`
	SlugPrefix  string `json:"slug_prefix"  jsonschema:"slug prefix, e.g. episode007"`
}

func handleNextEpisode(src Sources) mcp.ToolHandlerFor[NextEpisodeInput, NextEpisodeOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NextEpisodeInput) (*mcp.CallToolResult, NextEpisodeOutput, error) {
		slot, err := src.Episodes.Next(src.today())
		if err != nil {
			return nil, NextEpisodeOutput{}, fmt.Errorf("finding next episode: %w", err)
		}
		return nil, NextEpisodeOutput{
			Episode:     slot.Number,
			PublishDate: slot.Date.String(),
			SlugPrefix:  fmt.Sprintf("episode%03d", slot.Number),
		}, nil
	}
}

// --- list_episodes ---

// ListEpisodesInput is the input for the list_episodes tool.
type ListEpisodesInput struct {
	Last int `json:"last,omitempty" jsonschema:"only the most recent N episodes"`
}

// EpisodeRef is one published episode.
type EpisodeRef struct {
	Episode int    `json:"episode" jsonschema:"episode number"`
	Date    string `json:"date"    jsonschema:"publish date (YYYY-MM-DD)"`
	Title   string `json:"title"   jsonschema:"display title"`
	Slug    string `json:"slug"    jsonschema:"file slug"`
}

// ListEpisodesOutput is the output for the list_episodes tool.
type ListEpisodesOutput struct {
	Count    int          `json:"count"    jsonschema:"number of episodes returned"`
	Episodes []EpisodeRef `json:"episodes" jsonschema:"episodes in publish order"`
}

func handleListEpisodes(src Sources) mcp.ToolHandlerFor[ListEpisodesInput, ListEpisodesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListEpisodesInput) (*mcp.CallToolResult, ListEpisodesOutput, error) {
		if input.Last < 0 {
			return nil, ListEpisodesOutput{}, errors.New("last must not be negative")
		}
		summaries, err := src.Episodes.Episodes()
		if err != nil {
			return nil, ListEpisodesOutput{}, fmt.Errorf("listing episodes: %w", err)
		}
		if input.Last > 0 && len(summaries) > input.Last {
			summaries = summaries[len(summaries)-input.Last:]
		}

		refs := make([]EpisodeRef, 0, len(summaries))
		for _, s := range summaries {
			refs = append(refs, EpisodeRef{
				Episode: s.Number,
				Date:    s.Date.String(),
				Title:   s.Title,
				Slug:    s.Slug,
			})
		}
		return nil, ListEpisodesOutput{Count: len(refs), Episodes: refs}, nil
	}
}

// --- list_drafts ---

// ListDraftsInput is the input for the list_drafts tool (no parameters needed).
type ListDraftsInput struct{}

// DraftRef is one saved draft.
type DraftRef struct {
	ID          string `json:"id"                     jsonschema:"draft identifier"`
	Title       string `json:"title"                  jsonschema:"display title"`
	Episode     int    `json:"episode,omitempty"      jsonschema:"episode number, if assigned"`
	PublishDate string `json:"publish_date,omitempty" jsonschema:"planned publish date"`
	SavedAt     string `json:"saved_at"               jsonschema:"last save timestamp"`
}

// ListDraftsOutput is the output for the list_drafts tool.
type ListDraftsOutput struct {
	Count  int        `json:"count"  jsonschema:"number of drafts"`
	Drafts []DraftRef `json:"drafts" jsonschema:"drafts, newest first"`
}

func handleListDrafts(src Sources) mcp.ToolHandlerFor[ListDraftsInput, ListDraftsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListDraftsInput) (*mcp.CallToolResult, ListDraftsOutput, error) {
		entries, err := src.Drafts.List()
		if err != nil {
			return nil, ListDraftsOutput{}, fmt.Errorf("listing drafts: %w", err)
		}

		refs := make([]DraftRef, 0, len(entries))
		for _, entry := range entries {
			ref := DraftRef{
				ID:      entry.ID,
				Title:   entry.Draft.DisplayName(),
				Episode: entry.Draft.EpisodeNum,
				SavedAt: entry.SavedAt.Format(time.RFC3339),
			}
			if !entry.Draft.PublishDate.IsZero() {
				ref.PublishDate = entry.Draft.PublishDate.String()
			}
			refs = append(refs, ref)
		}
		return nil, ListDraftsOutput{Count: len(refs), Drafts: refs}, nil
	}
}

// --- heuristic_tags ---

// HeuristicTagsInput is the input for the heuristic_tags tool.
type HeuristicTagsInput struct {
	Body  string `json:"body"            jsonschema:"episode Markdown body"`
	Blurb string `json:"blurb,omitempty" jsonschema:"episode blurb"`
	Count int    `json:"count,omitempty" jsonschema:"number of tags to return (default from settings)"`
}

// HeuristicTagsOutput is the output for the heuristic_tags tool.
type HeuristicTagsOutput struct {
	Tags   []string `json:"tags"   jsonschema:"suggested extra tags"`
	Source string   `json:"source" jsonschema:"always fallback-heuristic"`
}

func handleHeuristicTags(src Sources) mcp.ToolHandlerFor[HeuristicTagsInput, HeuristicTagsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input HeuristicTagsInput) (*mcp.CallToolResult, HeuristicTagsOutput, error) {
		if strings.TrimSpace(input.Body) == "" && strings.TrimSpace(input.Blurb) == "" {
			return nil, HeuristicTagsOutput{}, errors.New("body or blurb is required")
		}
		count := input.Count
		if count <= 0 {
			count = src.TagCount
		}
		if count <= 0 {
			count = tags.DefaultCount
		}
		return nil, HeuristicTagsOutput{
			Tags:   tags.Heuristic(input.Body, input.Blurb, src.DefaultTags, count),
			Source: tags.SourceHeuristic,
		}, nil
	}
}

func (s Sources) today() episode.Date {
	if s.Today == nil {
		return episode.DateOf(time.Now())
	}
	return s.Today()
}
