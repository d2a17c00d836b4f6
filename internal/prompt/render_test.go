package prompt

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tmpl := &Template{Content: "Exactly {{tag_count}} tags. Avoid: {{default_tags}}.\n\n{{body}}"}

	got := Render(tmpl, Vars{
		"tag_count":    "3",
		"default_tags": "alaska, it, scifi",
		"body":         "The server melted.",
	})

	want := "Exactly 3 tags. Avoid: alaska, it, scifi.\n\nThe server melted."
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	got := Render(&Template{Content: "{{blurb}} / {{mystery}}"}, Vars{"blurb": "In which"})
	if got != "In which / {{mystery}}" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_DoesNotReexpandValues(t *testing.T) {
	got := Render(&Template{Content: "{{body}}|{{blurb}}"}, Vars{
		"body":  "literal {{blurb}} in the story",
		"blurb": "short",
	})
	if got != "literal {{blurb}} in the story|short" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_BuiltinTags(t *testing.T) {
	tmpl, err := loadBuiltin("tags")
	if err != nil {
		t.Fatal(err)
	}
	got := Render(tmpl, Vars{"tag_count": "3", "default_tags": "alaska, it, scifi", "blurb": "B", "body": "Body"})
	if strings.Contains(got, "{{") {
		t.Errorf("unrendered placeholder in %q", got)
	}
	if !strings.Contains(got, "- Exactly 3 unique tags.") || !strings.HasSuffix(got, "Body:\nBody") {
		t.Errorf("rendered tags prompt = %q", got)
	}
}
