// Package crosspost renders every published episode into one plaintext file
// per syndication channel under {output root}/{slug}/{code}.txt.
package crosspost

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/textnorm"
)

// Divider separates the sections of a long-form payload.
const Divider = "============%<==============="

// Format is the payload layout of a channel.
type Format int

const (
	// LongForm is title, tags, blurb and body joined by Divider.
	LongForm Format = iota
	// ShortForm is the single-line social message.
	ShortForm
)

// Channel is one syndication target.
type Channel struct {
	Name   string
	Code   string
	Format Format
}

// Channels lists every target in output order.
var Channels = []Channel{
	{Name: "medium", Code: "med", Format: LongForm},
	{Name: "substack", Code: "sub", Format: LongForm},
	{Name: "wattpad", Code: "watt", Format: LongForm},
	{Name: "facebook", Code: "fb", Format: LongForm},
	{Name: "x", Code: "x", Format: ShortForm},
	{Name: "bluesky", Code: "bsky", Format: ShortForm},
}

// Result summarises one export run.
type Result struct {
	Root    string         `json:"root"`
	Posts   int            `json:"posts"`
	Skipped int            `json:"skipped"`
	Counts  map[string]int `json:"counts"`
}

// Count returns the number of files written for a channel code.
func (r *Result) Count(code string) int {
	if r == nil {
		return 0
	}
	return r.Counts[code]
}

// Exporter writes cross-post files for a content directory.
type Exporter struct {
	postsDir    string
	outputRoot  string
	siteURL     string
	placeholder string
	log         zerolog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPlaceholder excludes the reserved next-episode file from export.
func WithPlaceholder(path string) Option {
	return func(e *Exporter) { e.placeholder = path }
}

// New returns an Exporter reading postsDir and writing under outputRoot.
func New(postsDir, outputRoot, siteURL string, logger zerolog.Logger, opts ...Option) *Exporter {
	e := &Exporter{postsDir: postsDir, outputRoot: outputRoot, siteURL: siteURL, log: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export wipes the output root and regenerates every channel file. Posts that
// cannot be parsed are skipped with a warning.
func (e *Exporter) Export() (*Result, error) {
	if strings.TrimSpace(e.outputRoot) == "" || filepath.Clean(e.outputRoot) == filepath.Dir(filepath.Clean(e.outputRoot)) {
		return nil, fmt.Errorf("refusing to export into %q", e.outputRoot)
	}

	posts, skipped, err := e.readPosts()
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(e.outputRoot); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", e.outputRoot, err)
	}
	if err := os.MkdirAll(e.outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", e.outputRoot, err)
	}

	result := &Result{Root: e.outputRoot, Posts: len(posts), Skipped: skipped, Counts: make(map[string]int)}
	var errs []error
	for _, post := range posts {
		for _, ch := range Channels {
			payload := Payload(post, ch, e.siteURL)
			if payload == "" {
				continue
			}
			if err := e.writeFile(post, ch, payload); err != nil {
				errs = append(errs, err)
				continue
			}
			result.Counts[ch.Code]++
		}
	}
	return result, errors.Join(errs...)
}

func (e *Exporter) writeFile(post *episode.Post, ch Channel, payload string) error {
	dir := filepath.Join(e.outputRoot, post.ResolveSlug())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, ch.Code+".txt")
	content := textnorm.EnsureTrailingNewline(strings.TrimRight(payload, " \t\r\n"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) readPosts() ([]*episode.Post, int, error) {
	paths, err := filepath.Glob(filepath.Join(e.postsDir, "*.md"))
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", e.postsDir, err)
	}
	sort.Strings(paths)

	placeholder := ""
	if e.placeholder != "" {
		placeholder = filepath.Clean(e.placeholder)
	}

	var posts []*episode.Post
	skipped := 0
	for _, path := range paths {
		if filepath.Clean(path) == placeholder {
			continue
		}
		post, err := episode.ParseFile(path)
		if err != nil {
			e.log.Warn().Err(err).Str("path", path).Msg("skipping post")
			skipped++
			continue
		}
		if post.ResolveSlug() == "" {
			e.log.Warn().Str("path", path).Msg("skipping post without a usable slug")
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, skipped, nil
}

// Payload renders post for one channel. Posts without a title produce an
// empty short-form payload, which callers skip.
func Payload(post *episode.Post, ch Channel, link string) string {
	title := textnorm.NormalizePlaintext(strings.TrimSpace(post.Title))
	blurb := textnorm.EnsureTrailingEllipsis(textnorm.NormalizePlaintext(post.DisplayBlurb()))

	if ch.Format == ShortForm {
		return textnorm.ComposeSocialMessage(title, blurb, link)
	}
	body := textnorm.NormalizePlaintext(strings.TrimSpace(post.Body))
	return sections(title, strings.Join(post.Tags, ", "), blurb, body)
}

func sections(values ...string) string {
	for i, v := range values {
		values[i] = strings.TrimRight(v, " \t\r\n")
	}
	return strings.TrimSpace(strings.Join(values, "\n"+Divider+"\n"))
}
