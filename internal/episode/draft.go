// Package episode defines the in-progress episode draft, its derived fields,
// and the published content-file format.
package episode

import (
	"fmt"
	"strings"
	"time"

	"github.com/fortyninthit/episodes/internal/textnorm"
)

// Draft is one authoring session, in progress or loaded from disk.
type Draft struct {
	EpisodeNum    int       `json:"episode_num"`
	PublishDate   Date      `json:"publish_date"`
	TitleFragment string    `json:"title_fragment"`
	FullTitle     string    `json:"full_title"`
	Slug          string    `json:"slug"`
	BlurbInput    string    `json:"blurb_input"`
	Blurb         string    `json:"blurb"`
	Body          string    `json:"body"`
	ExtraTags     []string  `json:"extra_tags"`
	Tags          []string  `json:"tags"`
	ImagePath     string    `json:"image_path"`
	NextTeaser    string    `json:"next_teaser"`
	DraftID       string    `json:"draft_id,omitempty"`
	DraftSavedAt  time.Time `json:"draft_saved_at,omitzero"`
}

// FormatFullTitle renders the display title, e.g. "episode007 – The Cold Open".
func FormatFullTitle(num int, fragment string) string {
	return fmt.Sprintf("episode%03d – %s", num, strings.TrimSpace(fragment))
}

// FormatSlug renders the file slug, e.g. "episode007-the-cold-open".
func FormatSlug(num int, fragment string) string {
	return fmt.Sprintf("episode%03d-%s", num, textnorm.Slugify(fragment))
}

// SetTitle stores the title fragment and recomputes the full title and slug.
func (d *Draft) SetTitle(fragment string) {
	d.TitleFragment = strings.TrimSpace(fragment)
	d.FullTitle = FormatFullTitle(d.EpisodeNum, d.TitleFragment)
	d.Slug = FormatSlug(d.EpisodeNum, d.TitleFragment)
}

// SetBlurb stores the raw blurb and its normalized, ellipsis-terminated form.
func (d *Draft) SetBlurb(input string) {
	d.BlurbInput = input
	d.Blurb = FormatBlurb(input)
}

// FormatBlurb is the published form of a raw blurb.
func FormatBlurb(input string) string {
	return textnorm.EnsureTrailingEllipsis(textnorm.NormalizePlaintext(input))
}

// SetTags stores the extra tags and rebuilds the full tag list with defaults first.
func (d *Draft) SetTags(defaults, extra []string) {
	d.ExtraTags = append([]string(nil), extra...)
	d.Tags = MergeTags(defaults, extra)
}

// MergeTags concatenates tag lists, trimming blanks and dropping duplicates
// while keeping first-seen order.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	return merged
}

// Filename is the published file name: {date}-{slug}.md.
func (d *Draft) Filename() string {
	return d.PublishDate.String() + "-" + d.Slug + ".md"
}

// DisplayName is the best human label for the draft.
func (d *Draft) DisplayName() string {
	switch {
	case d.FullTitle != "":
		return d.FullTitle
	case d.Slug != "":
		return d.Slug
	case d.DraftID != "":
		return d.DraftID
	default:
		return "(untitled)"
	}
}

// ValidationError lists the fields that keep a draft from being published.
type ValidationError struct {
	Fields  []string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Validate checks that every field the content file needs is present.
func (d *Draft) Validate() error {
	var missing []string
	if d.EpisodeNum < 1 {
		missing = append(missing, "episode_num")
	}
	if d.PublishDate.IsZero() {
		missing = append(missing, "publish_date")
	}
	if d.Slug == "" {
		missing = append(missing, "slug")
	}
	if d.FullTitle == "" {
		missing = append(missing, "full_title")
	}
	if d.Blurb == "" {
		missing = append(missing, "blurb")
	}
	if strings.TrimSpace(d.Body) == "" {
		missing = append(missing, "body")
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "draft is incomplete"}
	}
	return nil
}
