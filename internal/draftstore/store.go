// Package draftstore persists in-progress episode drafts as one JSON file per
// draft and migrates drafts left in deprecated locations.
package draftstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/output"
)

// ErrNotFound is returned when no draft file exists for an identifier.
var ErrNotFound = errors.New("draft not found")

const draftExt = ".json"

// Store reads and writes drafts under a single directory.
type Store struct {
	dir    string
	legacy []string
	now    func() time.Time
	newID  func() string
	log    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLegacyDirs sets the deprecated directories Migrate drains.
func WithLegacyDirs(dirs ...string) Option {
	return func(s *Store) { s.legacy = append([]string(nil), dirs...) }
}

// WithClock overrides the save-time clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides draft identifier generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a Store rooted at dir.
func New(dir string, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		dir:   dir,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the canonical draft directory.
func (s *Store) Dir() string {
	return s.dir
}

// Entry is one listed draft.
type Entry struct {
	ID      string
	Path    string
	Draft   *episode.Draft
	SavedAt time.Time
}

// ListStats reports how many draft files were read and skipped.
type ListStats struct {
	Total   int
	Parsed  int
	Skipped int
}

func (s *Store) path(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("draft id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid draft id %q", id)
	}
	return filepath.Join(s.dir, id+draftExt), nil
}

// Load reads the draft with the given identifier.
func (s *Store) Load(id string) (*episode.Draft, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, output.NewUserError(err.Error())
	}
	draft, _, err := readDraft(path)
	return draft, err
}

// readDraft decodes a draft file, filling the identifier from the file name
// when the document lacks one.
func readDraft(path string) (*episode.Draft, os.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), draftExt))
		}
		return nil, nil, output.NewSystemErrorWithCause("failed to read draft file: "+path, err)
	}

	var draft episode.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, nil, fmt.Errorf("parsing draft %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(draft.DraftID) == "" {
		draft.DraftID = strings.TrimSuffix(filepath.Base(path), draftExt)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, output.NewSystemErrorWithCause("failed to stat draft file: "+path, err)
	}
	return &draft, info, nil
}

// List returns every readable draft, most recently saved first.
func (s *Store) List() ([]Entry, error) {
	entries, _, err := s.ListWithStats()
	return entries, err
}

// ListWithStats returns every readable draft plus counts of skipped files.
// Unparseable drafts are skipped with a warning. A missing directory yields
// no drafts.
func (s *Store) ListWithStats() ([]Entry, *ListStats, error) {
	stats := &ListStats{}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+draftExt))
	if err != nil {
		return nil, nil, output.NewSystemErrorWithCause("failed to list drafts", err)
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		if strings.HasPrefix(filepath.Base(path), ".") {
			continue
		}
		stats.Total++
		draft, info, readErr := readDraft(path)
		if readErr != nil {
			stats.Skipped++
			s.log.Warn().Err(readErr).Str("path", path).Msg("skipping draft")
			continue
		}
		savedAt := draft.DraftSavedAt
		if savedAt.IsZero() {
			savedAt = info.ModTime()
		}
		entries = append(entries, Entry{
			ID:      draft.DraftID,
			Path:    path,
			Draft:   draft,
			SavedAt: savedAt,
		})
		stats.Parsed++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].SavedAt.Equal(entries[j].SavedAt) {
			return entries[i].SavedAt.After(entries[j].SavedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, stats, nil
}

// Save writes d, assigning an identifier if it has none and stamping the
// save time. It returns the identifier. d is only updated once the file is
// written.
func (s *Store) Save(d *episode.Draft) (string, error) {
	id := d.DraftID
	if strings.TrimSpace(id) == "" {
		id = s.newID()
	}
	path, err := s.path(id)
	if err != nil {
		return "", output.NewUserError(err.Error())
	}

	savedAt := s.now().Truncate(time.Second)
	if previous := d.DraftSavedAt; !previous.IsZero() && !savedAt.After(previous) {
		savedAt = previous.Add(time.Second)
	}

	record := *d
	record.DraftID = id
	record.DraftSavedAt = savedAt
	data, err := json.MarshalIndent(&record, "", "  ")
	if err != nil {
		return "", output.NewSystemError("failed to serialize draft: " + err.Error())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("failed to create draft directory", err)
	}
	if err := atomicWrite(path, append(data, '\n')); err != nil {
		return "", output.NewSystemErrorWithCause("failed to write draft", err)
	}

	d.DraftID = id
	d.DraftSavedAt = savedAt
	s.log.Debug().Str("draft_id", id).Str("path", path).Msg("draft saved")
	return id, nil
}

// Delete removes the draft file for id.
func (s *Store) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return output.NewUserError(err.Error())
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return output.NewSystemErrorWithCause("failed to delete draft: "+path, err)
	}
	return nil
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".draft-*.tmp")
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
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
