// Package tags suggests topical tags for an episode. It asks the
// text-generation service first and falls back to a local word-frequency
// heuristic whenever the service is unavailable or its answer is unusable.
package tags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/interlog"
	"github.com/fortyninthit/episodes/internal/llm"
	"github.com/fortyninthit/episodes/internal/prompt"
	"github.com/fortyninthit/episodes/internal/textnorm"
)

// DefaultCount is the number of extra tags requested per episode.
const DefaultCount = 3

// Result sources.
const (
	SourceService   = "openai"
	SourceHeuristic = "fallback-heuristic"
)

// Completer is the slice of llm.Client the engine needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
	Model() string
}

// Recorder receives one entry per interaction.
type Recorder interface {
	Write(e interlog.Entry)
}

// Config tunes the request.
type Config struct {
	Count       int
	Defaults    []string
	Temperature float64
	MaxTokens   int
}

// Result is the outcome of Suggest. Err carries the reason the service
// answer was not used, if any; it is informational only.
type Result struct {
	Tags   []string
	Source string
	Err    error
}

// Engine produces tag suggestions.
type Engine struct {
	client   Completer
	template *prompt.Template
	records  Recorder
	log      zerolog.Logger
	cfg      Config
}

// NewEngine builds an Engine. A nil client disables the service and every
// suggestion comes from the heuristic.
func NewEngine(client Completer, tmpl *prompt.Template, records Recorder, logger zerolog.Logger, cfg Config) *Engine {
	if cfg.Count < 1 {
		cfg.Count = DefaultCount
	}
	defaults := make([]string, 0, len(cfg.Defaults))
	for _, tag := range cfg.Defaults {
		defaults = append(defaults, strings.ToLower(strings.TrimSpace(tag)))
	}
	cfg.Defaults = defaults
	return &Engine{client: client, template: tmpl, records: records, log: logger, cfg: cfg}
}

// Count returns the number of tags each suggestion aims for.
func (e *Engine) Count() int { return e.cfg.Count }

// Suggest returns up to Count tags for the episode. It never fails.
func (e *Engine) Suggest(ctx context.Context, body, blurb string) Result {
	tags, err := e.fromService(ctx, body, blurb)
	if err == nil {
		return Result{Tags: tags, Source: SourceService}
	}
	if !errors.Is(err, llm.ErrNoCredential) {
		e.log.Warn().Err(err).Msg("tag generation failed; falling back to heuristic tags")
	}

	tags = Heuristic(body, blurb, e.cfg.Defaults, e.cfg.Count)
	e.recordHeuristic(tags)
	return Result{Tags: tags, Source: SourceHeuristic, Err: err}
}

// Heuristic runs only the local fallback and records it.
func (e *Engine) Heuristic(body, blurb string) []string {
	tags := Heuristic(body, blurb, e.cfg.Defaults, e.cfg.Count)
	e.recordHeuristic(tags)
	return tags
}

// Schema declares the structured output the service must return.
func Schema(count int) *llm.Schema {
	return &llm.Schema{
		Name: "episode_tags",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"tags"},
			"properties": map[string]any{
				"tags": map[string]any{
					"type":     "array",
					"minItems": count,
					"maxItems": count,
					"items": map[string]any{
						"type":    "string",
						"pattern": textnorm.TagPattern.String(),
					},
				},
			},
		},
	}
}

func (e *Engine) request(body, blurb string) llm.Request {
	user := prompt.Render(e.template, prompt.Vars{
		"tag_count":    strconv.Itoa(e.cfg.Count),
		"default_tags": strings.Join(e.cfg.Defaults, ", "),
		"blurb":        blurb,
		"body":         body,
	})
	return llm.Request{
		System:      e.template.System,
		Prompt:      user,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Schema:      Schema(e.cfg.Count),
		Metadata:    map[string]string{"purpose": "episode_tags"},
	}
}

func (e *Engine) fromService(ctx context.Context, body, blurb string) ([]string, error) {
	if e.client == nil || e.template == nil {
		return nil, llm.ErrNoCredential
	}

	req := e.request(body, blurb)
	entry := interlog.Entry{
		Source: SourceService,
		Model:  e.client.Model(),
		System: req.System,
		User:   req.Prompt,
	}

	resp, err := e.client.Complete(ctx, req)
	if resp != nil {
		entry.Response = string(resp.Raw)
		entry.FinishReason = resp.FinishReason
		if resp.Model != "" {
			entry.Model = resp.Model
		}
		if u := resp.Usage; u != nil {
			entry.InputTokens, entry.OutputTokens, entry.TotalTokens = u.Input, u.Output, u.Total
		}
	}
	if err != nil {
		if errors.Is(err, llm.ErrNoCredential) {
			return nil, err
		}
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			entry.Status = apiErr.Status
			entry.Error = fmt.Sprintf("HTTP %d", apiErr.Status)
		} else {
			entry.Error = err.Error()
		}
		e.record(entry)
		return nil, err
	}

	var raw []byte
	content := ""
	if resp != nil {
		raw, content = resp.Raw, resp.Content
	}
	candidates, _, _ := extract(raw, content)
	tags := e.accept(candidates)
	if len(tags) < e.cfg.Count {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		reason := env.finishReason()
		if reason == "" && resp != nil {
			reason = resp.FinishReason
		}
		if reason == "" {
			reason = "unknown"
		}
		err := fmt.Errorf("expected %d tags, got %d (finish_reason=%s)", e.cfg.Count, len(tags), reason)
		entry.Tags = tags
		entry.Error = err.Error()
		e.record(entry)
		return nil, err
	}

	entry.Tags = tags
	e.record(entry)
	return tags, nil
}

// accept lowercases, dedupes and filters candidates down to at most Count
// tags that satisfy the tag pattern and are not defaults.
func (e *Engine) accept(candidates []string) []string {
	reserved := make(map[string]bool, len(e.cfg.Defaults))
	for _, tag := range e.cfg.Defaults {
		reserved[tag] = true
	}

	seen := make(map[string]bool)
	var tags []string
	for _, c := range candidates {
		tag := strings.ToLower(strings.TrimSpace(c))
		if seen[tag] || reserved[tag] || !textnorm.ValidTag(tag) {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == e.cfg.Count {
			break
		}
	}
	return tags
}

func (e *Engine) recordHeuristic(tags []string) {
	response, _ := json.Marshal(map[string][]string{"tags": tags})
	e.record(interlog.Entry{
		Source:   SourceHeuristic,
		Response: string(response),
		Tags:     tags,
		Error:    "heuristic-tags",
	})
}

func (e *Engine) record(entry interlog.Entry) {
	if e.records != nil {
		e.records.Write(entry)
	}
}
