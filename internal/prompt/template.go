package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template sources, in resolution order.
const (
	SourceSite    = "site"
	SourceGlobal  = "global"
	SourceBuiltin = "built-in"
)

// Template represents a prompt template with metadata and content.
type Template struct {
	// Metadata from frontmatter
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`
	System      string `yaml:"system,omitempty"`

	// Template content (after frontmatter)
	Content string `yaml:"-"`

	// Source location for display
	Source string `yaml:"-"`
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"` // source this template shadows
}

// Resolver looks templates up in the site and global directories before
// falling back to the embedded set. Empty directories are skipped.
type Resolver struct {
	SiteDir   string
	GlobalDir string
}

// NewResolver returns a Resolver for a site root and user config directory.
func NewResolver(root, configDir string) Resolver {
	r := Resolver{}
	if root != "" {
		r.SiteDir = filepath.Join(root, ".episodes", "templates")
	}
	if configDir != "" {
		r.GlobalDir = filepath.Join(configDir, "templates")
	}
	return r
}

// Load finds and loads a template by name.
func (r Resolver) Load(name string) (*Template, error) {
	if tmpl, err := loadFromPath(r.SiteDir, name); err == nil {
		tmpl.Source = SourceSite
		return tmpl, nil
	}
	if tmpl, err := loadFromPath(r.GlobalDir, name); err == nil {
		tmpl.Source = SourceGlobal
		return tmpl, nil
	}
	if tmpl, err := loadBuiltin(name); err == nil {
		tmpl.Source = SourceBuiltin
		return tmpl, nil
	}
	return nil, fmt.Errorf("template %q not found", name)
}

// List returns every available template, each name once. A site or global
// template that shadows a built-in has Overrides set to SourceBuiltin.
func (r Resolver) List() []TemplateInfo {
	seen := make(map[string]int)
	var templates []TemplateInfo

	sources := []struct {
		name string
		dir  string
	}{
		{SourceSite, r.SiteDir},
		{SourceGlobal, r.GlobalDir},
	}
	for _, src := range sources {
		infos, err := listFromPath(src.dir, src.name)
		if err != nil {
			continue // directory might not exist
		}
		for _, info := range infos {
			if _, exists := seen[info.Name]; !exists {
				seen[info.Name] = len(templates)
				templates = append(templates, info)
			}
		}
	}

	for _, info := range listFromFS(builtins, SourceBuiltin) {
		if idx, exists := seen[info.Name]; exists {
			templates[idx].Overrides = SourceBuiltin
			continue
		}
		templates = append(templates, info)
	}
	return templates
}

// loadFromPath loads "<name>.md" from a template directory.
func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}
	return loadFromFS(os.DirFS(dir), name)
}

func loadFromFS(fsys fs.FS, name string) (*Template, error) {
	data, err := fs.ReadFile(fsys, name+".md")
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	return parseTemplate(string(data))
}

// listFromPath lists the templates in a directory.
func listFromPath(dir, source string) ([]TemplateInfo, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return listFromFS(os.DirFS(dir), source), nil
}

// listFromFS reports every parseable "*.md" template at the root of fsys.
func listFromFS(fsys fs.FS, source string) []TemplateInfo {
	matches, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil
	}

	var templates []TemplateInfo
	for _, match := range matches {
		name := strings.TrimSuffix(match, ".md")
		tmpl, err := loadFromFS(fsys, name)
		if err != nil {
			continue
		}
		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}
	return templates
}

// parseTemplate parses a template from raw content with YAML frontmatter.
func parseTemplate(raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
