package episode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fortyninthit/episodes/internal/textnorm"
)

// ErrNoFrontMatter is returned when a content file lacks a --- delimited header.
var ErrNoFrontMatter = errors.New("missing front matter delimiter")

var (
	frontMatterPattern = regexp.MustCompile(`(?s)\A---[ \t\r]*\n(.*?)\n---[ \t\r]*(?:\n|\z)`)
	datePrefixPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
)

// Render produces the published content file for d.
func Render(d *Draft) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("layout: post\n")
	fmt.Fprintf(&sb, "title: %s\n", quote(d.FullTitle))
	fmt.Fprintf(&sb, "episode: %d\n", d.EpisodeNum)
	fmt.Fprintf(&sb, "slug: %s\n", d.Slug)
	sb.WriteString("blurb: &blurb >-\n")
	for _, line := range strings.Split(d.Blurb, "\n") {
		sb.WriteString("  " + strings.TrimRight(line, " \t\r") + "\n")
	}
	sb.WriteString("description: *blurb\n")
	fmt.Fprintf(&sb, "image: %s\n", quote(d.ImagePath))
	sb.WriteString("tags:\n")
	if len(d.Tags) == 0 {
		sb.WriteString("  - misc\n")
	}
	for _, tag := range d.Tags {
		sb.WriteString("  - " + tag + "\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(strings.TrimRight(d.Body, " \t\r\n"))
	sb.WriteString("\n")
	return sb.String()
}

// quote renders s as a YAML double-quoted scalar.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Post is a published content file as read back from disk.
type Post struct {
	Path     string
	Filename string
	Title    string
	// Episode is zero for files without an episode field, such as the placeholder.
	Episode     int
	Slug        string
	Blurb       string
	Description string
	Image       string
	Tags        []string
	Body        string
}

type frontMatter struct {
	Title       string     `yaml:"title"`
	Episode     any        `yaml:"episode"`
	Slug        string     `yaml:"slug"`
	Blurb       string     `yaml:"blurb"`
	Description string     `yaml:"description"`
	Image       string     `yaml:"image"`
	Tags        stringList `yaml:"tags"`
}

// stringList accepts either a YAML sequence or a single scalar.
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list", node.Line)
	}
}

// SplitFrontMatter separates the YAML header from the body.
func SplitFrontMatter(raw string) (front, body string, err error) {
	loc := frontMatterPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", "", ErrNoFrontMatter
	}
	return raw[loc[2]:loc[3]], raw[loc[1]:], nil
}

// Parse reads a content file's header and body.
func Parse(raw string) (*Post, error) {
	front, body, err := SplitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}

	return &Post{
		Title:       strings.TrimSpace(fm.Title),
		Episode:     episodeNumber(fm.Episode),
		Slug:        strings.TrimSpace(fm.Slug),
		Blurb:       strings.TrimSpace(fm.Blurb),
		Description: strings.TrimSpace(fm.Description),
		Image:       strings.TrimSpace(fm.Image),
		Tags:        MergeTags(fm.Tags),
		Body:        body,
	}, nil
}

// ParseFile reads and parses the content file at path.
func ParseFile(path string) (*Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	post, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	post.Path = path
	post.Filename = filepath.Base(path)
	return post, nil
}

// episodeNumber reads the leading integer of an episode field, or 0.
func episodeNumber(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		digits := n
		for i, r := range n {
			if r < '0' || r > '9' {
				digits = n[:i]
				break
			}
		}
		num, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return num
	default:
		return 0
	}
}

// HasEpisode reports whether the header carried an episode number.
func (p *Post) HasEpisode() bool { return p.Episode > 0 }

// FileDate parses the date prefix of the post's file name.
func (p *Post) FileDate() (Date, error) {
	return FileDate(p.Filename)
}

// FileDate parses the YYYY-MM-DD prefix of a content file name.
func FileDate(name string) (Date, error) {
	base := filepath.Base(name)
	if len(base) < len(DateLayout) {
		return Date{}, fmt.Errorf("file name %q has no date prefix", base)
	}
	return ParseDate(base[:len(DateLayout)])
}

// DisplayBlurb returns the blurb, falling back to the description.
func (p *Post) DisplayBlurb() string {
	if p.Blurb != "" {
		return p.Blurb
	}
	return p.Description
}

// ResolveSlug returns the header slug, else the slugified title, else the
// file name without its date prefix and extension.
func (p *Post) ResolveSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	if p.Title != "" {
		return textnorm.Slugify(p.Title)
	}
	name := strings.TrimSuffix(p.Filename, filepath.Ext(p.Filename))
	return textnorm.Slugify(datePrefixPattern.ReplaceAllString(name, ""))
}
