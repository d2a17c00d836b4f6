// Package publisher turns a finished draft into a published content file,
// keeps the next-episode placeholder in sync and runs the cross-post export.
package publisher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/crosspost"
	"github.com/fortyninthit/episodes/internal/draftstore"
	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/output"
)

// ErrAlreadyExists is returned when the target content file is present.
var ErrAlreadyExists = errors.New("episode file already exists")

// Exporter regenerates cross-posts after a publish.
type Exporter interface {
	Export() (*crosspost.Result, error)
}

// DraftRemover deletes the draft a published episode came from.
type DraftRemover interface {
	Delete(id string) error
}

// Invalidator is told when published content changes.
type Invalidator interface {
	Invalidate()
}

// Result reports what a publish did beyond writing the content file.
type Result struct {
	Path               string
	PlaceholderUpdated bool
	Export             *crosspost.Result
	DraftDeleted       bool
	Warnings           []string
}

// Publisher writes content files into a posts directory.
type Publisher struct {
	postsDir    string
	placeholder string
	exporter    Exporter
	drafts      DraftRemover
	invalidate  Invalidator
	log         zerolog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithExporter sets the cross-post step.
func WithExporter(e Exporter) Option {
	return func(p *Publisher) { p.exporter = e }
}

// WithDrafts sets where published drafts are deleted from.
func WithDrafts(d DraftRemover) Option {
	return func(p *Publisher) { p.drafts = d }
}

// WithInvalidator registers a cache to reset after each publish.
func WithInvalidator(i Invalidator) Option {
	return func(p *Publisher) { p.invalidate = i }
}

// New returns a Publisher for postsDir and the placeholder file path.
func New(postsDir, placeholder string, logger zerolog.Logger, opts ...Option) *Publisher {
	p := &Publisher{postsDir: postsDir, placeholder: placeholder, log: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns where d would be published.
func (p *Publisher) Path(d *episode.Draft) string {
	return filepath.Join(p.postsDir, d.Filename())
}

// Publish writes d's content file. It never overwrites: an existing file
// yields ErrAlreadyExists and d is left untouched. Placeholder, export and
// draft cleanup failures become warnings on the Result.
func (p *Publisher) Publish(d *episode.Draft) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, output.NewUserErrorWithCause("episode is incomplete", err)
	}

	path := p.Path(d)
	if err := writeExclusive(path, []byte(episode.Render(d))); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, output.NewConflictErrorWithCause(fmt.Sprintf("%s already exists", path), err)
		}
		return nil, output.NewSystemErrorWithCause("failed to write episode file", err)
	}
	if p.invalidate != nil {
		p.invalidate.Invalidate()
	}

	result := &Result{Path: path}
	p.log.Info().Str("path", path).Msg("episode published")

	if err := RewritePlaceholder(p.placeholder, d.NextTeaser); err != nil {
		result.warn(p.log, err, "placeholder teaser not updated")
	} else if d.NextTeaser != "" {
		result.PlaceholderUpdated = true
	}

	if p.exporter != nil {
		export, err := p.exporter.Export()
		result.Export = export
		if err != nil {
			result.warn(p.log, err, "cross-post export failed")
		}
	}

	if d.DraftID != "" && p.drafts != nil {
		switch err := p.drafts.Delete(d.DraftID); {
		case err == nil:
			result.DraftDeleted = true
		case errors.Is(err, draftstore.ErrNotFound):
		default:
			result.warn(p.log, err, "draft not deleted")
		}
	}
	d.DraftID = ""
	return result, nil
}

func (r *Result) warn(log zerolog.Logger, err error, msg string) {
	log.Warn().Err(err).Msg(msg)
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

// writeExclusive creates path with data, failing with ErrAlreadyExists if
// path exists. The content is staged in a temp file and hard-linked into
// place so readers never see a partial file.
func writeExclusive(path string, data []byte) error {
	if _, err := os.Lstat(path); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".episode-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("link %s: %w", path, err)
	}
	return nil
}
