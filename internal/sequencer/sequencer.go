// Package sequencer derives the next episode number and publish date from
// the published content directory and the reserved placeholder file.
package sequencer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/episode"
)

// Summary describes one published episode file.
type Summary struct {
	Number int          `json:"episode"`
	Date   episode.Date `json:"date"`
	Title  string       `json:"title"`
	Slug   string       `json:"slug"`
	Path   string       `json:"path"`
}

// Slot is the number and date the next episode will take.
type Slot struct {
	Number int          `json:"episode"`
	Date   episode.Date `json:"publish_date"`
}

// Sequencer scans the content directory once and serves answers from that
// scan until Invalidate is called.
type Sequencer struct {
	postsDir    string
	placeholder string
	log         zerolog.Logger

	scanned  bool
	episodes []Summary
}

// New returns a Sequencer over postsDir. placeholder is the path of the
// reserved next-episode file, which never counts as published content.
func New(postsDir, placeholder string, logger zerolog.Logger) *Sequencer {
	return &Sequencer{postsDir: postsDir, placeholder: placeholder, log: logger}
}

// Invalidate drops the cached scan. Call it after anything is published.
func (s *Sequencer) Invalidate() {
	s.scanned = false
	s.episodes = nil
}

// Episodes returns every published file carrying an episode number, ordered
// by date then number.
func (s *Sequencer) Episodes() ([]Summary, error) {
	if s.scanned {
		return s.episodes, nil
	}
	episodes, err := s.scan()
	if err != nil {
		return nil, err
	}
	s.episodes, s.scanned = episodes, true
	return episodes, nil
}

func (s *Sequencer) scan() ([]Summary, error) {
	paths, err := filepath.Glob(filepath.Join(s.postsDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.postsDir, err)
	}

	placeholder := filepath.Clean(s.placeholder)
	var episodes []Summary
	for _, path := range paths {
		if filepath.Clean(path) == placeholder {
			continue
		}
		post, err := episode.ParseFile(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable content file")
			continue
		}
		if !post.HasEpisode() {
			continue
		}
		summary := Summary{
			Number: post.Episode,
			Title:  post.Title,
			Slug:   post.ResolveSlug(),
			Path:   path,
		}
		if date, err := post.FileDate(); err == nil {
			summary.Date = date
		} else {
			s.log.Warn().Err(err).Str("path", path).Msg("content file name has no date")
		}
		episodes = append(episodes, summary)
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		if !episodes[i].Date.Equal(episodes[j].Date) {
			return episodes[i].Date.Before(episodes[j].Date)
		}
		return episodes[i].Number < episodes[j].Number
	})
	return episodes, nil
}

// NextEpisodeNumber returns one more than the highest published episode
// number, or 1 when nothing is published.
func (s *Sequencer) NextEpisodeNumber() (int, error) {
	episodes, err := s.Episodes()
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, ep := range episodes {
		highest = max(highest, ep.Number)
	}
	return highest + 1, nil
}

// LatestPublishedDate returns the newest date among published episode file
// names. The zero Date means none.
func (s *Sequencer) LatestPublishedDate() (episode.Date, error) {
	episodes, err := s.Episodes()
	if err != nil {
		return episode.Date{}, err
	}
	var latest episode.Date
	for _, ep := range episodes {
		latest = episode.MaxDate(latest, ep.Date)
	}
	return latest, nil
}

// PlaceholderDate returns the date in the placeholder file's name, if that
// file exists.
func (s *Sequencer) PlaceholderDate() (episode.Date, bool) {
	if s.placeholder == "" {
		return episode.Date{}, false
	}
	if _, err := os.Stat(s.placeholder); err != nil {
		return episode.Date{}, false
	}
	date, err := episode.FileDate(s.placeholder)
	if err != nil {
		return episode.Date{}, false
	}
	return date, true
}

// NextPublishDate returns the day after the latest published or placeholder
// date, but never a day before today.
func (s *Sequencer) NextPublishDate(today episode.Date) (episode.Date, error) {
	latest, err := s.LatestPublishedDate()
	if err != nil {
		return episode.Date{}, err
	}
	if placeholder, ok := s.PlaceholderDate(); ok {
		latest = episode.MaxDate(latest, placeholder)
	}
	if latest.IsZero() {
		return today, nil
	}
	return episode.MaxDate(latest.AddDays(1), today), nil
}

// Next returns the slot for a new episode.
func (s *Sequencer) Next(today episode.Date) (Slot, error) {
	number, err := s.NextEpisodeNumber()
	if err != nil {
		return Slot{}, err
	}
	date, err := s.NextPublishDate(today)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Number: number, Date: date}, nil
}
