package textnorm

import (
	"regexp"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Cold Open", "the-cold-open"},
		{"  Ice -- Fog!! ", "ice-fog"},
		{"Server #42: Reboot", "server-42-reboot"},
		{"---", ""},
		{"", ""},
		{"Café Noir", "caf-noir"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_OutputShape(t *testing.T) {
	shape := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	inputs := []string{
		"episode one", "--lead", "trail--", "MiXeD_case", "a  b\tc", "!!!", "über ålesund", "x",
		"Tickets, Tickets & More Tickets", "2024: the year",
	}
	for _, in := range inputs {
		if got := Slugify(in); !shape.MatchString(got) {
			t.Errorf("Slugify(%q) = %q, not a clean slug", in, got)
		}
	}
}

func TestNormalizePlaintext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\u2013b", "a-b"},
		{"wait\u2014what", "wait--what"},
		{"\u22125", "-5"},
		{"\u2018hi\u2019", "'hi'"},
		{"\u201cquoted\u201d", `"quoted"`},
		{"and then\u2026", "and then..."},
		{"no\u00a0break", "no break"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizePlaintext(tt.in)
		if got != tt.want {
			t.Errorf("NormalizePlaintext(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizePlaintext(got); again != got {
			t.Errorf("NormalizePlaintext not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestEnsureTrailingEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Hello.", "Hello..."},
		{"Hello\u2026", "Hello..."},
		{"Hello", "Hello..."},
		{"Hello?!", "Hello..."},
		{"Hello...", "Hello..."},
		{"  In which things happen  ", "In which things happen..."},
	}
	for _, tt := range tests {
		if got := EnsureTrailingEllipsis(tt.in); got != tt.want {
			t.Errorf("EnsureTrailingEllipsis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureTrailingPeriod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Done", "Done."},
		{"Done.", "Done."},
		{"Really?", "Really?"},
		{"Wow!", "Wow!"},
		{"Stay tuned. Next time on 49thIT...", "Stay tuned. Next time on 49thIT..."},
	}
	for _, tt := range tests {
		if got := EnsureTrailingPeriod(tt.in); got != tt.want {
			t.Errorf("EnsureTrailingPeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeSocialMessage(t *testing.T) {
	tests := []struct {
		name                 string
		title, summary, link string
		want                 string
	}{
		{
			name:    "full message",
			title:   "episode007 – Test",
			summary: "In which things happen...",
			link:    "https://49thit.com",
			want:    "episode007 – Test - In which things happen... https://49thit.com",
		},
		{
			name:  "empty title",
			title: "  ", summary: "anything", link: "https://49thit.com",
			want: "",
		},
		{
			name:  "no link",
			title: "T", summary: "S...", link: "",
			want: "T - S...",
		},
		{
			name:  "empty summary repeats title",
			title: "T", summary: "", link: "https://x.test",
			want: "T - T... https://x.test",
		},
		{
			name:  "whitespace collapsed",
			title: "T", summary: "a\n\n  b\tc", link: "L",
			want: "T - a b c... L",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeSocialMessage(tt.title, tt.summary, tt.link); got != tt.want {
				t.Errorf("ComposeSocialMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLength_CountsRunes(t *testing.T) {
	if got := Length("a–b"); got != 3 {
		t.Errorf("Length() = %d, want 3", got)
	}
}

func TestEnsureMarkdownParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"one\ntwo\nthree", "one\n\ntwo\n\nthree"},
		{"one\r\ntwo", "one\n\ntwo"},
		{"one\n\ntwo\nthree", "one\n\ntwo\nthree"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := EnsureMarkdownParagraphs(tt.in); got != tt.want {
			t.Errorf("EnsureMarkdownParagraphs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTeaser(t *testing.T) {
	const base = "Stay tuned. Next time on 49thIT..."
	tests := []struct {
		in   string
		want string
	}{
		{"", base},
		{"the ice road", base + " the ice road."},
		{base + " the ice road!", base + " the ice road!"},
	}
	for _, tt := range tests {
		if got := NormalizeTeaser(tt.in, base); got != tt.want {
			t.Errorf("NormalizeTeaser(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeTag(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"Ice Road", "ice-road", true},
		{"  Data_Center!! ", "datacenter", true},
		{"x", "x", false},
		{"***", "", false},
		{strings.Repeat("a", 49), strings.Repeat("a", 49), false},
	}
	for _, tt := range tests {
		got := SanitizeTag(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if ValidTag(got) != tt.valid {
			t.Errorf("ValidTag(%q) = %v, want %v", got, !tt.valid, tt.valid)
		}
	}
}

func TestNormalizeImagePath(t *testing.T) {
	const fallback = "/assets/img/thumbnail.png"
	tests := []struct {
		in   string
		want string
	}{
		{"", fallback},
		{"   ", fallback},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://example.com/b.jpg", "http://example.com/b.jpg"},
		{"assets/img/ep7.png", "/assets/img/ep7.png"},
		{"/assets/img/ep7.png", "/assets/img/ep7.png"},
	}
	for _, tt := range tests {
		if got := NormalizeImagePath(tt.in, fallback); got != tt.want {
			t.Errorf("NormalizeImagePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureTrailingNewline(t *testing.T) {
	if got := EnsureTrailingNewline("x"); got != "x\n" {
		t.Errorf("got %q", got)
	}
	if got := EnsureTrailingNewline("x\n"); got != "x\n" {
		t.Errorf("got %q", got)
	}
}
