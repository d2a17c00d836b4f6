package wizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/tags"
	"github.com/fortyninthit/episodes/internal/textnorm"
)

const (
	titleLabel  = `Episode title (without "episodeXXX - ")`
	blurbLabel  = `Blurb (without punctuation, e.g., "In which our abcxyz")`
	imageLabel  = "Image filename with extension (enter for default):"
	teaserLabel = "episodeNEXT teaser"
	bodyLabel   = "Paste the full Markdown body"

	previewLimit = 120
)

// collect fills a new draft from sequential prompts.
func (w *Wizard) collect(ctx context.Context, d *episode.Draft) error {
	slot, err := w.slots.Next(w.cfg.Today())
	if err != nil {
		return err
	}
	d.EpisodeNum = slot.Number
	d.PublishDate = slot.Date
	w.out.Println("Preparing episode " + strconv.Itoa(slot.Number) + " (will follow all numbered episodes and precede episodeNEXT).")

	fragment, err := w.prompt.Ask(titleLabel, "", true)
	if err != nil {
		return err
	}
	d.SetTitle(fragment)

	blurb, err := w.prompt.Ask(blurbLabel, "", true)
	if err != nil {
		return err
	}
	if err := w.enforceSocialLimits(d, blurb); err != nil {
		return err
	}

	if d.Body, err = w.promptBody(bodyLabel); err != nil {
		return err
	}
	if err := w.buildTags(ctx, d); err != nil {
		return err
	}

	image, err := w.prompt.Ask(imageLabel, w.cfg.DefaultImage, false)
	if err != nil {
		return err
	}
	d.ImagePath = textnorm.NormalizeImagePath(image, w.cfg.DefaultImage)

	teaser, err := w.prompt.Ask(teaserLabel, w.cfg.DefaultTeaser, true)
	if err != nil {
		return err
	}
	d.NextTeaser = textnorm.NormalizeTeaser(teaser, w.cfg.DefaultTeaser)
	return nil
}

// enforceSocialLimits sets the blurb from input, re-prompting until the
// composed social message fits every configured network.
func (w *Wizard) enforceSocialLimits(d *episode.Draft, input string) error {
	for {
		blurb := episode.FormatBlurb(input)
		overages := SocialOverages(d.FullTitle, blurb, w.cfg.SiteURL, w.cfg.Social)
		if len(overages) == 0 {
			d.SetBlurb(input)
			return nil
		}

		w.out.Section("Social post warning")
		for _, o := range overages {
			w.out.Warn("%s summary is %d characters over the %d character limit (%d total).", o.Network, o.Over, o.Limit, o.Length)
		}
		w.out.Println("Edit the blurb to continue.")

		var err error
		if input, err = w.prompt.Ask(blurbLabel, "", true); err != nil {
			return err
		}
	}
}

// promptBody reads a Markdown body with at least one block of text.
func (w *Wizard) promptBody(label string) (string, error) {
	for {
		body, err := w.prompt.Multiline(label, w.cfg.BodyTerminator)
		if err != nil {
			return "", err
		}
		if textnorm.ParagraphCount(body) > 0 {
			return textnorm.EnsureMarkdownParagraphs(body), nil
		}
		w.out.Hint("Body needs at least one paragraph of text.")
	}
}

// buildTags asks the tag source for suggestions, lets the user review them
// and stores the result with the default tags first.
func (w *Wizard) buildTags(ctx context.Context, d *episode.Draft) error {
	w.out.Println("Generating tag suggestions...")
	res := w.tags.Suggest(ctx, d.Body, d.BlurbInput)
	if res.Source == tags.SourceHeuristic {
		w.out.Warn("AI did not return tags; falling back to heuristic tags.")
	}

	extra := res.Tags
	if count := w.tags.Count(); len(extra) > count {
		extra = extra[:count]
	}
	reviewed, err := w.reviewTags(extra)
	if err != nil {
		return err
	}
	d.SetTags(w.cfg.DefaultTags, reviewed)
	return nil
}

// reviewTags lists the tags and lets the user replace any of them.
func (w *Wizard) reviewTags(extra []string) ([]string, error) {
	list := append([]string(nil), extra...)
	for {
		w.out.Section("Suggested tags")
		if len(list) == 0 {
			w.out.Println("(none)")
		}
		for i, tag := range list {
			w.out.Print("%d. %s\n", i+1, tag)
		}

		input, err := w.prompt.Line("Press Enter to accept all, or enter tag number to edit: ")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return list, nil
		}
		index, convErr := strconv.Atoi(input)
		if convErr != nil || index < 1 || index > len(list) {
			w.out.Hint("Invalid selection. Enter a number between 1 and %d, or press Enter.", len(list))
			continue
		}

		replacement, err := w.prompt.Line("Enter replacement for tag " + strconv.Itoa(index) + ": ")
		if err != nil {
			return nil, err
		}
		tag := textnorm.SanitizeTag(replacement)
		switch {
		case tag == "":
			w.out.Hint("Tag cannot be empty.")
		case !textnorm.ValidTag(tag):
			w.out.Hint("Tags must be 2-48 characters of a-z, 0-9 and hyphens.")
		default:
			list[index-1] = tag
		}
	}
}

// review shows the collected answers and applies edits until the user
// presses Enter.
func (w *Wizard) review(ctx context.Context, d *episode.Draft) error {
	for {
		w.printReview(d)
		input, err := w.prompt.Line("Enter number to edit, or press Enter to continue: ")
		if err != nil {
			return err
		}

		switch input {
		case "":
			return nil
		case "1":
			fragment, err := w.prompt.Ask(titleLabel, "", true)
			if err != nil {
				return err
			}
			d.SetTitle(fragment)
			err = w.enforceSocialLimits(d, d.BlurbInput)
			if err != nil {
				return err
			}
		case "2":
			blurb, err := w.prompt.Ask(blurbLabel, "", true)
			if err != nil {
				return err
			}
			if err := w.enforceSocialLimits(d, blurb); err != nil {
				return err
			}
		case "3":
			image, err := w.prompt.Ask(imageLabel, d.ImagePath, false)
			if err != nil {
				return err
			}
			d.ImagePath = textnorm.NormalizeImagePath(image, w.cfg.DefaultImage)
		case "4":
			reviewed, err := w.reviewTags(d.ExtraTags)
			if err != nil {
				return err
			}
			d.SetTags(w.cfg.DefaultTags, reviewed)
		case "5":
			teaser, err := w.prompt.Ask(teaserLabel, d.NextTeaser, true)
			if err != nil {
				return err
			}
			d.NextTeaser = textnorm.NormalizeTeaser(teaser, w.cfg.DefaultTeaser)
		case "6":
			body, err := w.promptBody(bodyLabel + " (this replaces the existing body)")
			if err != nil {
				return err
			}
			d.Body = body
			regenerate, err := w.prompt.YesNo("Regenerate tags based on the updated body?", true)
			if err != nil {
				return err
			}
			if regenerate {
				if err := w.buildTags(ctx, d); err != nil {
					return err
				}
			} else {
				w.out.Println("Keeping existing tags. Use option 4 if you need to edit them.")
			}
		default:
			w.out.Hint("Invalid selection. Choose 1-6 or press Enter.")
		}
	}
}

func (w *Wizard) printReview(d *episode.Draft) {
	tagsDisplay := "(none)"
	if len(d.Tags) > 0 {
		tagsDisplay = strings.Join(d.Tags, ", ")
	}

	w.out.Section("Review answers (body preview truncated)")
	w.out.KeyValue("Episode #", strconv.Itoa(d.EpisodeNum))
	w.out.KeyValue("Publish date", d.PublishDate.String())
	w.out.KeyValue("Slug", d.Slug)
	w.out.Println("1. Episode title: " + d.FullTitle)
	w.out.Println("2. Blurb: " + d.Blurb)
	w.out.Println("3. Image: " + d.ImagePath)
	w.out.Println("4. Tags: " + tagsDisplay)
	w.out.Println("5. episodeNEXT teaser: " + d.NextTeaser)
	w.out.Println("6. Body: " + textnorm.BodyPreview(d.Body, previewLimit))
}
