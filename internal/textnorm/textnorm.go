// Package textnorm holds the pure text transforms used when authoring an
// episode: slugs, typographic clean-up, terminal punctuation, social
// messages and tag sanitizing.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	notTagChar   = regexp.MustCompile(`[^a-z0-9-]`)
	trailingEnd  = regexp.MustCompile(`[.!?\x{2026}]+$`)
	trailingDots = regexp.MustCompile(`\.+$`)

	// TagPattern is the character and length contract every extra tag satisfies.
	TagPattern = regexp.MustCompile(`^[a-z0-9-]{2,48}$`)
)

var plaintext = strings.NewReplacer(
	"\u2013", "-",
	"\u2014", "--",
	"\u2015", "--",
	"\u2212", "-",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2026", "...",
	"\u00a0", " ",
)

// Slugify lowercases text and collapses every run of non-alphanumerics into a
// single hyphen, trimming hyphens at both ends. All-symbol input yields "".
func Slugify(text string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}

// NormalizePlaintext maps typographic dashes, quotes, the ellipsis glyph and
// non-breaking spaces to ASCII. Input is NFC-composed first.
func NormalizePlaintext(text string) string {
	if text == "" {
		return ""
	}
	return plaintext.Replace(norm.NFC.String(text))
}

// EnsureTrailingEllipsis replaces any terminal punctuation with "...".
func EnsureTrailingEllipsis(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ""
	}
	clean = strings.ReplaceAll(clean, "\u2026", "...")
	clean = trailingEnd.ReplaceAllString(clean, "")
	return clean + "..."
}

// EnsureTrailingPeriod appends "." unless text already ends in ".", "!" or "?".
func EnsureTrailingPeriod(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ""
	}
	if strings.HasSuffix(clean, ".") || strings.HasSuffix(clean, "!") || strings.HasSuffix(clean, "?") {
		return clean
	}
	return clean + "."
}

// ComposeSocialMessage builds "{title} - {summary}... {link}". An empty title
// yields "", an empty summary repeats the title and an empty link drops the
// link segment.
func ComposeSocialMessage(title, summary, link string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	summary = strings.TrimSpace(whitespace.ReplaceAllString(summary, " "))
	if summary == "" {
		summary = title
	}
	message := strings.TrimSpace(title + " - " + summary)
	link = strings.TrimSpace(link)
	if link == "" {
		return message
	}
	return trailingDots.ReplaceAllString(message, "") + "... " + link
}

// Length counts characters the way social networks do: one per code point.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// EnsureMarkdownParagraphs normalizes CRLF and, when text has no blank-line
// paragraph break, turns every line into its own paragraph.
func EnsureMarkdownParagraphs(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if strings.Contains(normalized, "\n\n") {
		return normalized
	}
	return strings.Join(strings.Split(normalized, "\n"), "\n\n")
}

// NormalizeTeaser prefixes text with base unless it already starts with it,
// substitutes base for empty text and ensures a trailing period.
func NormalizeTeaser(text, base string) string {
	teaser := strings.TrimSpace(text)
	switch {
	case teaser == "":
		teaser = base
	case !strings.HasPrefix(teaser, base):
		teaser = base + " " + teaser
	}
	return EnsureTrailingPeriod(teaser)
}

// SanitizeTag lowercases a hand-typed tag, turns whitespace into hyphens and
// drops anything outside [a-z0-9-].
func SanitizeTag(text string) string {
	tag := strings.ToLower(strings.TrimSpace(text))
	tag = whitespace.ReplaceAllString(tag, "-")
	return notTagChar.ReplaceAllString(tag, "")
}

// ValidTag reports whether tag satisfies TagPattern.
func ValidTag(tag string) bool {
	return TagPattern.MatchString(tag)
}

// EnsureTrailingNewline appends "\n" when text does not already end with one.
func EnsureTrailingNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
