package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/fortyninthit/episodes/internal/llm"
)

// FileName is the per-site settings file looked up in the site root.
const FileName = "episodes.toml"

// Paths holds the site-relative locations the tool reads and writes.
type Paths struct {
	PostsDir        string   `toml:"posts_dir"`
	Placeholder     string   `toml:"placeholder"`
	DraftsDir       string   `toml:"drafts_dir"`
	LegacyDraftDirs []string `toml:"legacy_draft_dirs"`
	LogDir          string   `toml:"log_dir"`
	CrosspostsDir   string   `toml:"crossposts_dir"`
}

// Social is one network whose composed message must fit within Limit characters.
type Social struct {
	Name  string `toml:"name"`
	Limit int    `toml:"limit"`
}

// LLM configures the external tag-generation service.
type LLM struct {
	Provider        string  `toml:"provider"`
	Model           string  `toml:"model"`
	Temperature     float64 `toml:"temperature"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	BaseURL         string  `toml:"base_url"`
	APIKeyFile      string  `toml:"api_key_file"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	MaxAttempts     int     `toml:"max_attempts"`

	// APIKey is resolved at load time and never written back.
	APIKey string `toml:"-"`
}

// Logs configures interaction log retention.
type Logs struct {
	MaxFiles int `toml:"max_files"`
}

// Settings is the full configuration for one site.
type Settings struct {
	SiteURL        string   `toml:"site_url"`
	Timezone       string   `toml:"timezone"`
	DefaultTags    []string `toml:"default_tags"`
	DefaultImage   string   `toml:"default_image"`
	DefaultTeaser  string   `toml:"default_teaser"`
	ExtraTagCount  int      `toml:"extra_tag_count"`
	BodyTerminator string   `toml:"body_terminator"`
	Paths          Paths    `toml:"paths"`
	Social         []Social `toml:"social"`
	LLM            LLM      `toml:"llm"`
	Logs           Logs     `toml:"logs"`

	// Root is the absolute site root every relative path was resolved against.
	Root string `toml:"-"`

	location *time.Location
}

// Default returns the settings used when no episodes.toml exists.
func Default() Settings {
	return Settings{
		SiteURL:        "https://49thit.com",
		Timezone:       "America/Anchorage",
		DefaultTags:    []string{"alaska", "it", "scifi"},
		DefaultImage:   "/assets/img/thumbnail.png",
		DefaultTeaser:  "Stay tuned. Next time on 49thIT...",
		ExtraTagCount:  3,
		BodyTerminator: "##",
		Paths: Paths{
			PostsDir:        "_posts",
			Placeholder:     "_posts/2024-01-01-episodeNEXT.md",
			DraftsDir:       "episode_drafts",
			LegacyDraftDirs: []string{"logs/episode_drafts", "scripts/logs/episode_drafts"},
			LogDir:          "logs",
			CrosspostsDir:   "crossposts",
		},
		Social: []Social{
			{Name: "X", Limit: 280},
			{Name: "Bluesky", Limit: 300},
		},
		LLM: LLM{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Temperature:     0.3,
			MaxOutputTokens: 256,
			APIKeyFile:      ".apikey-openai",
			MaxAttempts:     1,
		},
		Logs: Logs{MaxFiles: 12},
	}
}

// Load reads <root>/episodes.toml over the defaults, resolves paths against
// root and resolves the API credential. A missing file is not an error.
func Load(root string) (*Settings, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close() //nolint:errcheck // read-only
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Resolve(root); err != nil {
		return nil, err
	}
	cfg.LLM.APIKey = cfg.resolveAPIKey()
	return &cfg, nil
}

func (s *Settings) normalize() {
	tags := make([]string, 0, len(s.DefaultTags))
	for _, tag := range s.DefaultTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	s.DefaultTags = tags
	s.LLM.Provider = strings.ToLower(strings.TrimSpace(s.LLM.Provider))
	if s.LLM.MaxAttempts < 1 {
		s.LLM.MaxAttempts = 1
	}
	if s.Logs.MaxFiles < 1 {
		s.Logs.MaxFiles = 1
	}
}

// Validate reports settings that would make authoring impossible.
func (s *Settings) Validate() error {
	if s.ExtraTagCount < 1 {
		return fmt.Errorf("extra_tag_count must be positive, got %d", s.ExtraTagCount)
	}
	if strings.TrimSpace(s.BodyTerminator) == "" {
		return errors.New("body_terminator must not be empty")
	}
	if s.Paths.PostsDir == "" || s.Paths.DraftsDir == "" {
		return errors.New("paths.posts_dir and paths.drafts_dir are required")
	}
	for _, social := range s.Social {
		if social.Name == "" || social.Limit <= 0 {
			return fmt.Errorf("social entry %q needs a name and a positive limit", social.Name)
		}
	}
	if providers := llm.SupportedProviders(); !slices.Contains(providers, s.LLM.Provider) {
		return fmt.Errorf("llm.provider %q is not one of %s", s.LLM.Provider, strings.Join(providers, ", "))
	}
	return nil
}

// Resolve makes every relative path absolute against root and loads the
// configured timezone, falling back to the local zone if it is unknown.
func (s *Settings) Resolve(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve site root %q: %w", root, err)
	}
	s.Root = abs

	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(abs, p)
	}
	s.Paths.PostsDir = join(s.Paths.PostsDir)
	s.Paths.Placeholder = join(s.Paths.Placeholder)
	s.Paths.DraftsDir = join(s.Paths.DraftsDir)
	s.Paths.LogDir = join(s.Paths.LogDir)
	s.Paths.CrosspostsDir = join(s.Paths.CrosspostsDir)
	for i, dir := range s.Paths.LegacyDraftDirs {
		s.Paths.LegacyDraftDirs[i] = join(dir)
	}
	s.LLM.APIKeyFile = join(s.LLM.APIKeyFile)

	s.location = time.Local
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			s.location = loc
		}
	}
	return nil
}

// Location returns the timezone publish dates and save stamps are computed in.
func (s *Settings) Location() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}

// Now returns the current time in the configured timezone.
func (s *Settings) Now() time.Time {
	return time.Now().In(s.Location())
}

// resolveAPIKey prefers OPENAI_API_KEY and falls back to the first line of
// the configured key file.
func (s *Settings) resolveAPIKey() string {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return key
	}
	if s.LLM.APIKeyFile == "" {
		return ""
	}
	data, err := os.ReadFile(s.LLM.APIKeyFile)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line)
}
