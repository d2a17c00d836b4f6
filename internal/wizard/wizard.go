// Package wizard runs the interactive episode authoring session: pick or
// resume a draft, collect the content, review and edit it, then publish,
// save or quit.
package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fortyninthit/episodes/internal/config"
	"github.com/fortyninthit/episodes/internal/draftstore"
	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/output"
	"github.com/fortyninthit/episodes/internal/publisher"
	"github.com/fortyninthit/episodes/internal/sequencer"
	"github.com/fortyninthit/episodes/internal/tags"
)

// State is a step of the session.
type State int

const (
	StateSelecting State = iota
	StateCollecting
	StateReviewing
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateCollecting:
		return "collecting"
	case StateReviewing:
		return "reviewing"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeQuit Outcome = iota
	OutcomePublished
	OutcomeSaved
)

// Result describes a finished session.
type Result struct {
	Outcome Outcome
	Draft   *episode.Draft
	Path    string // published file
	DraftID string // saved draft
	Publish *publisher.Result
}

// Slotter hands out the next episode number and date.
type Slotter interface {
	Next(today episode.Date) (sequencer.Slot, error)
}

type invalidator interface {
	Invalidate()
}

// Drafts is the draft persistence the session needs.
type Drafts interface {
	List() ([]draftstore.Entry, error)
	Save(d *episode.Draft) (string, error)
	Delete(id string) error
}

// TagSource suggests extra tags.
type TagSource interface {
	Suggest(ctx context.Context, body, blurb string) tags.Result
	Count() int
}

// Publisher writes the finished episode.
type Publisher interface {
	Publish(d *episode.Draft) (*publisher.Result, error)
}

// Config holds the site conventions the session applies.
type Config struct {
	SiteURL        string
	DefaultTags    []string
	DefaultImage   string
	DefaultTeaser  string
	BodyTerminator string
	Social         []config.Social
	Today          func() episode.Date
}

// ConfigFromSettings maps loaded settings onto a wizard Config.
func ConfigFromSettings(s *config.Settings) Config {
	return Config{
		SiteURL:        s.SiteURL,
		DefaultTags:    s.DefaultTags,
		DefaultImage:   s.DefaultImage,
		DefaultTeaser:  s.DefaultTeaser,
		BodyTerminator: s.BodyTerminator,
		Social:         s.Social,
		Today:          func() episode.Date { return episode.DateOf(s.Now()) },
	}
}

// Wizard is one authoring session.
type Wizard struct {
	prompt *Prompter
	out    *output.Printer
	cfg    Config
	slots  Slotter
	drafts Drafts
	tags   TagSource
	pub    Publisher
	log    zerolog.Logger

	state State
}

// New assembles a session.
func New(prompt *Prompter, out *output.Printer, cfg Config, slots Slotter, drafts Drafts, tagSource TagSource, pub Publisher, logger zerolog.Logger) *Wizard {
	if cfg.BodyTerminator == "" {
		cfg.BodyTerminator = "##"
	}
	if cfg.Today == nil {
		cfg.Today = func() episode.Date { return episode.DateOf(time.Now()) }
	}
	return &Wizard{
		prompt: prompt,
		out:    out,
		cfg:    cfg,
		slots:  slots,
		drafts: drafts,
		tags:   tagSource,
		pub:    pub,
		log:    logger,
	}
}

// State reports the current step.
func (w *Wizard) State() State { return w.state }

// Run drives the session to completion. It returns ErrEndOfInput, wrapped,
// if input runs out at any prompt.
func (w *Wizard) Run(ctx context.Context) (*Result, error) {
	var d *episode.Draft
	var result *Result
	w.state = StateSelecting

	for w.state != StateDone {
		var err error
		switch w.state {
		case StateSelecting:
			var fresh bool
			d, fresh, err = w.selectDraft()
			if err == nil && !fresh {
				err = w.reslot(d)
			}
			if err == nil {
				w.state = StateReviewing
				if fresh {
					w.state = StateCollecting
				}
			}
		case StateCollecting:
			if err = w.collect(ctx, d); err == nil {
				w.state = StateReviewing
			}
		case StateReviewing:
			if err = w.review(ctx, d); err == nil {
				w.state = StateFinalizing
			}
		case StateFinalizing:
			result, err = w.finalize(d)
			if err == nil && result != nil {
				w.state = StateDone
			}
		}
		if err != nil {
			w.log.Debug().Err(err).Stringer("state", w.state).Msg("session ended")
			return nil, err
		}
	}
	return result, nil
}

// selectDraft offers saved drafts. fresh is true when a new episode should
// be collected.
func (w *Wizard) selectDraft() (*episode.Draft, bool, error) {
	for {
		entries, err := w.drafts.List()
		if err != nil {
			return nil, false, err
		}
		if len(entries) == 0 {
			w.out.Println("No saved drafts found. Starting a new episode.")
			return &episode.Draft{}, true, nil
		}

		w.out.Section("Saved drafts")
		for i, entry := range entries {
			w.out.Print("%d. %s (saved %s)\n", i+1, entry.Draft.DisplayName(), entry.SavedAt.Format(time.RFC3339))
		}
		w.out.Print("%d. Start a new draft\n", len(entries)+1)

		input, err := w.prompt.Line("Select draft number, press Enter for new, type N for new, or D to delete a draft: ")
		if err != nil {
			return nil, false, err
		}
		switch {
		case input == "" || strings.EqualFold(input, "n"):
			return &episode.Draft{}, true, nil
		case strings.EqualFold(input, "d"):
			if err := w.deleteDraft(entries); err != nil {
				return nil, false, err
			}
			continue
		}

		index, convErr := strconv.Atoi(input)
		switch {
		case convErr == nil && index == len(entries)+1:
			return &episode.Draft{}, true, nil
		case convErr == nil && index >= 1 && index <= len(entries):
			d := entries[index-1].Draft
			w.out.Notice("Loaded draft %s.", d.DisplayName())
			return d, false, nil
		}
		w.out.Hint("Invalid selection. Choose 1-%d, press Enter, or type N.", len(entries)+1)
	}
}

func (w *Wizard) deleteDraft(entries []draftstore.Entry) error {
	input, err := w.prompt.Line("Enter the number of the draft to delete: ")
	if err != nil {
		return err
	}
	if input == "" {
		w.out.Println("Deletion cancelled.")
		return nil
	}
	index, convErr := strconv.Atoi(input)
	if convErr != nil || index < 1 || index > len(entries) {
		w.out.Hint("Invalid selection. Enter a number between 1 and %d.", len(entries))
		return nil
	}

	entry := entries[index-1]
	title := entry.Draft.DisplayName()
	confirmed, err := w.prompt.YesNo("Delete draft \""+title+"\"?", false)
	if err != nil {
		return err
	}
	if !confirmed {
		w.out.Println("Deletion cancelled.")
		return nil
	}
	if err := w.drafts.Delete(entry.ID); err != nil {
		w.out.Warn("Failed to delete draft: %v", err)
		return nil
	}
	w.out.Notice("Deleted draft %s.", title)
	return nil
}

// finalize asks for the closing action. A nil Result with a nil error means
// the question should be asked again.
func (w *Wizard) finalize(d *episode.Draft) (*Result, error) {
	input, err := w.prompt.Line("\nChoose action: [P]ublish now, [S]ave draft, [Q]uit without saving: ")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(input) {
	case "", "p", "publish":
		return w.publish(d)
	case "s", "save":
		id, err := w.drafts.Save(d)
		if err != nil {
			return nil, err
		}
		w.out.Notice("Saved draft %s (%s).", d.DisplayName(), id)
		return &Result{Outcome: OutcomeSaved, Draft: d, DraftID: id}, nil
	case "q", "quit":
		w.out.Println("Exited without saving or publishing.")
		return &Result{Outcome: OutcomeQuit, Draft: d}, nil
	default:
		w.out.Hint("Please enter P, S, or Q.")
		return nil, nil
	}
}

// reslot moves d to the next free episode number and date when episodes
// published since it was saved have taken its slot.
func (w *Wizard) reslot(d *episode.Draft) error {
	if inv, ok := w.slots.(invalidator); ok {
		inv.Invalidate()
	}
	slot, err := w.slots.Next(w.cfg.Today())
	if err != nil {
		return err
	}
	if d.EpisodeNum == slot.Number && !d.PublishDate.Before(slot.Date) {
		return nil
	}

	previous := d.DisplayName()
	d.EpisodeNum = slot.Number
	d.PublishDate = slot.Date
	d.SetTitle(d.TitleFragment)
	w.out.Warn("Episode slot was taken; %s is now %s on %s.", previous, d.FullTitle, d.PublishDate)
	w.log.Info().Int("episode", slot.Number).Stringer("date", slot.Date).Msg("draft re-slotted")
	return nil
}

func (w *Wizard) publish(d *episode.Draft) (*Result, error) {
	if err := w.reslot(d); err != nil {
		return nil, err
	}
	res, err := w.pub.Publish(d)
	if err != nil {
		code := output.GetExitCode(err)
		if code == output.ExitConflict || code == output.ExitUserError {
			w.out.Error(err)
			return nil, nil
		}
		return nil, err
	}

	w.out.Notice("Created %s", res.Path)
	for _, warning := range res.Warnings {
		w.out.Warn("%s", warning)
	}
	if res.Export != nil {
		w.out.Println("Generated crossposts for " + strconv.Itoa(res.Export.Posts) + " posts.")
	}
	return &Result{Outcome: OutcomePublished, Draft: d, Path: res.Path, Publish: res}, nil
}

// IsEndOfInput reports whether err ended a session because input ran out.
func IsEndOfInput(err error) bool {
	return errors.Is(err, ErrEndOfInput)
}
