package episode

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSetTitle_DerivesFullTitleAndSlug(t *testing.T) {
	d := &Draft{EpisodeNum: 7}
	d.SetTitle("  The Cold Open ")

	if d.TitleFragment != "The Cold Open" {
		t.Errorf("TitleFragment = %q", d.TitleFragment)
	}
	if d.FullTitle != "episode007 – The Cold Open" {
		t.Errorf("FullTitle = %q", d.FullTitle)
	}
	if d.Slug != "episode007-the-cold-open" {
		t.Errorf("Slug = %q", d.Slug)
	}

	d.SetTitle("Thaw")
	if d.Slug != "episode007-thaw" || d.FullTitle != "episode007 – Thaw" {
		t.Errorf("retitle: FullTitle = %q, Slug = %q", d.FullTitle, d.Slug)
	}
}

func TestSetBlurb(t *testing.T) {
	d := &Draft{}
	d.SetBlurb("In which the server “remembers”…")

	if d.BlurbInput != "In which the server “remembers”…" {
		t.Errorf("BlurbInput changed: %q", d.BlurbInput)
	}
	if d.Blurb != `In which the server "remembers"...` {
		t.Errorf("Blurb = %q", d.Blurb)
	}
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"alaska", "it", "scifi"}, []string{"cache", " it ", "", "server", "cache"})
	want := []string{"alaska", "it", "scifi", "cache", "server"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTags() = %v, want %v", got, want)
	}
}

func TestSetTags_CopiesExtra(t *testing.T) {
	extra := []string{"cache"}
	d := &Draft{}
	d.SetTags([]string{"alaska"}, extra)
	extra[0] = "mutated"

	if d.ExtraTags[0] != "cache" {
		t.Errorf("ExtraTags aliased caller slice: %v", d.ExtraTags)
	}
	if !reflect.DeepEqual(d.Tags, []string{"alaska", "cache"}) {
		t.Errorf("Tags = %v", d.Tags)
	}
}

func TestFilename(t *testing.T) {
	d := &Draft{EpisodeNum: 12, PublishDate: NewDate(2025, time.March, 4)}
	d.SetTitle("Ice Fog")
	if got := d.Filename(); got != "2025-03-04-episode012-ice-fog.md" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		draft Draft
		want  string
	}{
		{Draft{FullTitle: "episode001 – A", Slug: "s", DraftID: "id"}, "episode001 – A"},
		{Draft{Slug: "s", DraftID: "id"}, "s"},
		{Draft{DraftID: "id"}, "id"},
		{Draft{}, "(untitled)"},
	}
	for _, tt := range tests {
		if got := tt.draft.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	d := &Draft{EpisodeNum: 1, PublishDate: NewDate(2025, 1, 2), Body: "x"}
	d.SetTitle("A")
	d.SetBlurb("b")
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	empty := &Draft{}
	err := empty.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Error(), "body") || len(verr.Fields) != 6 {
		t.Errorf("Fields = %v", verr.Fields)
	}
}

func TestDraftJSON_FieldNames(t *testing.T) {
	d := &Draft{EpisodeNum: 3, PublishDate: NewDate(2025, 6, 1), DraftID: "abc"}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["publish_date"] != "2025-06-01" {
		t.Errorf("publish_date = %v", raw["publish_date"])
	}
	if _, ok := raw["draft_saved_at"]; ok {
		t.Error("zero draft_saved_at should be omitted")
	}
	for _, key := range []string{"episode_num", "title_fragment", "blurb_input", "extra_tags", "next_teaser", "draft_id"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}
