package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantFrontmatter string
		wantContent     string
	}{
		{
			name:            "no frontmatter",
			input:           "Just some content",
			wantFrontmatter: "",
			wantContent:     "Just some content",
		},
		{
			name:            "with frontmatter",
			input:           "---\nname: tags\nsystem: Return JSON.\n---\nTag this body",
			wantFrontmatter: "name: tags\nsystem: Return JSON.",
			wantContent:     "Tag this body",
		},
		{
			name:            "frontmatter only opening",
			input:           "---\nname: tags\nNo closing delimiter",
			wantFrontmatter: "",
			wantContent:     "---\nname: tags\nNo closing delimiter",
		},
		{
			name:            "empty frontmatter",
			input:           "---\n---\nContent after empty frontmatter",
			wantFrontmatter: "",
			wantContent:     "Content after empty frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFrontmatter, gotContent := splitFrontmatter(tt.input)
			if gotFrontmatter != tt.wantFrontmatter {
				t.Errorf("splitFrontmatter() frontmatter = %q, want %q", gotFrontmatter, tt.wantFrontmatter)
			}
			if gotContent != tt.wantContent {
				t.Errorf("splitFrontmatter() content = %q, want %q", gotContent, tt.wantContent)
			}
		})
	}
}

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantSystem  string
		wantContent string
		wantErr     bool
	}{
		{
			name:        "valid template",
			input:       "---\nname: tags\ndescription: Topic tags\nsystem: Be brief.\nversion: 2\n---\nTags for {{body}}",
			wantName:    "tags",
			wantSystem:  "Be brief.",
			wantContent: "Tags for {{body}}",
		},
		{
			name:        "no frontmatter",
			input:       "Just content, no metadata",
			wantContent: "Just content, no metadata",
		},
		{
			name:    "invalid yaml",
			input:   "---\nname: [invalid yaml\n---\nContent",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := parseTemplate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tmpl.Name != tt.wantName || tmpl.System != tt.wantSystem || tmpl.Content != tt.wantContent {
				t.Errorf("parseTemplate() = %+v", tmpl)
			}
		})
	}
}

func TestLoadBuiltinTags(t *testing.T) {
	tmpl, err := loadBuiltin("tags")
	if err != nil {
		t.Fatalf("loadBuiltin(tags) error = %v", err)
	}
	if tmpl.Name != "tags" || tmpl.System == "" || tmpl.Description == "" {
		t.Errorf("loadBuiltin(tags) metadata = %+v", tmpl)
	}
	for _, placeholder := range []string{"{{tag_count}}", "{{default_tags}}", "{{blurb}}", "{{body}}"} {
		if !strings.Contains(tmpl.Content, placeholder) {
			t.Errorf("tags template missing %s", placeholder)
		}
	}
	if strings.Contains(tmpl.Content, "No hyphens") || !strings.Contains(tmpl.Content, "2 to 48 characters") {
		t.Errorf("tags template constraints do not match the tag pattern:\n%s", tmpl.Content)
	}

	if _, err := loadBuiltin("nonexistent-template"); err == nil {
		t.Error("loadBuiltin(nonexistent) expected error, got nil")
	}
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolverLoad(t *testing.T) {
	root := t.TempDir()
	configDir := t.TempDir()
	r := NewResolver(root, configDir)

	tmpl, err := r.Load("tags")
	if err != nil {
		t.Fatalf("Load(tags) error = %v", err)
	}
	if tmpl.Source != SourceBuiltin {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceBuiltin)
	}

	writeTemplate(t, r.GlobalDir, "tags", "---\nname: tags\ndescription: Global tags\n---\nGlobal")
	tmpl, err = r.Load("tags")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Source != SourceGlobal || tmpl.Content != "Global" {
		t.Errorf("global override = %+v", tmpl)
	}

	writeTemplate(t, r.SiteDir, "tags", "---\nname: tags\ndescription: Site tags\n---\nSite")
	tmpl, err = r.Load("tags")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Source != SourceSite || tmpl.Description != "Site tags" {
		t.Errorf("site override = %+v", tmpl)
	}

	if _, err := r.Load("nonexistent"); err == nil {
		t.Error("Load(nonexistent) expected error, got nil")
	}
}

func TestResolverList(t *testing.T) {
	r := NewResolver(t.TempDir(), "")
	writeTemplate(t, r.SiteDir, "tags", "---\ndescription: Site tags\n---\nSite")
	writeTemplate(t, r.SiteDir, "teaser", "---\ndescription: Teaser ideas\n---\nTeaser")

	infos := r.List()
	byName := map[string]TemplateInfo{}
	for _, info := range infos {
		if _, dup := byName[info.Name]; dup {
			t.Errorf("template %q listed twice", info.Name)
		}
		byName[info.Name] = info
	}

	if got := byName["tags"]; got.Source != SourceSite || got.Overrides != SourceBuiltin {
		t.Errorf("tags info = %+v", got)
	}
	if got := byName["teaser"]; got.Source != SourceSite || got.Overrides != "" {
		t.Errorf("teaser info = %+v", got)
	}
}
