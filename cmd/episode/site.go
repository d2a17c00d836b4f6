package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/config"
	"github.com/fortyninthit/episodes/internal/crosspost"
	"github.com/fortyninthit/episodes/internal/draftstore"
	"github.com/fortyninthit/episodes/internal/envfile"
	"github.com/fortyninthit/episodes/internal/episode"
	"github.com/fortyninthit/episodes/internal/interlog"
	"github.com/fortyninthit/episodes/internal/llm"
	"github.com/fortyninthit/episodes/internal/lock"
	"github.com/fortyninthit/episodes/internal/output"
	"github.com/fortyninthit/episodes/internal/prompt"
	"github.com/fortyninthit/episodes/internal/sequencer"
	"github.com/fortyninthit/episodes/internal/tags"
)

// site is the loaded configuration for one site root plus the diagnostic
// logger every component shares.
type site struct {
	settings *config.Settings
	log      zerolog.Logger
}

// newLogger writes human-readable zerolog events to cmd's stderr.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	w := cmd.ErrOrStderr()
	level := zerolog.InfoLevel
	if isVerbose(cmd) {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !output.IsTTY(w),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// openSite resolves the site root, loads credentials from env files and
// reads the site settings.
//
// Env file resolution order (first match for each variable wins, variables
// already in the environment always win):
//  1. <root>/.env.local
//  2. <root>/.env
//  3. <config dir>/env
func openSite(cmd *cobra.Command) (*site, error) {
	logger := newLogger(cmd)

	root, err := config.SiteRoot()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("cannot determine the site root", err)
	}
	if err := envfile.LoadAll(envfile.SiteFiles(root, config.Dir())...); err != nil {
		logger.Warn().Err(err).Msg("could not load env file")
	}

	settings, err := config.Load(root)
	if err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid settings: %v", err), err)
	}
	logger.Debug().Str("root", settings.Root).Str("provider", settings.LLM.Provider).Msg("site loaded")
	return &site{settings: settings, log: logger}, nil
}

// lock takes the session lock on the site root.
func (s *site) lock() (*lock.Lock, error) {
	lk, err := lock.Acquire(s.settings.Root)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, output.NewConflictErrorWithCause(err.Error(), err)
		}
		return nil, output.NewSystemErrorWithCause("failed to lock the site", err)
	}
	return lk, nil
}

func (s *site) today() episode.Date {
	return episode.DateOf(s.settings.Now())
}

func (s *site) drafts() *draftstore.Store {
	return draftstore.New(s.settings.Paths.DraftsDir, s.log,
		draftstore.WithLegacyDirs(s.settings.Paths.LegacyDraftDirs...),
		draftstore.WithClock(s.settings.Now),
	)
}

func (s *site) sequencer() *sequencer.Sequencer {
	return sequencer.New(s.settings.Paths.PostsDir, s.settings.Paths.Placeholder, s.log)
}

func (s *site) exporter() *crosspost.Exporter {
	return crosspost.New(s.settings.Paths.PostsDir, s.settings.Paths.CrosspostsDir, s.settings.SiteURL, s.log,
		crosspost.WithPlaceholder(s.settings.Paths.Placeholder))
}

// tagEngine wires the completion client, the tag prompt and the interaction
// log. Without a credential the engine runs on the heuristic alone.
func (s *site) tagEngine() (*tags.Engine, error) {
	tmpl, err := prompt.NewResolver(s.settings.Root, config.Dir()).Load("tags")
	if err != nil {
		return nil, output.NewUserErrorWithCause("failed to load the tags prompt", err)
	}

	cfg := s.settings.LLM
	var completer tags.Completer
	client, err := llm.New(llm.Config{
		Provider:    llm.Provider(cfg.Provider),
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxAttempts: cfg.MaxAttempts,
	})
	switch {
	case err == nil:
		completer = client
		s.log.Debug().Str("provider", string(client.Provider())).Str("model", client.Model()).Msg("tag service configured")
	case errors.Is(err, llm.ErrNoCredential):
		s.log.Debug().Msg("no API credential; tags will come from the heuristic")
	default:
		return nil, err
	}

	records := interlog.New(s.settings.Paths.LogDir, s.settings.Logs.MaxFiles, s.log, interlog.WithClock(s.settings.Now))
	s.log.Debug().Str("dir", records.Dir()).Msg("interaction log")
	return tags.NewEngine(completer, tmpl, records, s.log, tags.Config{
		Count:       s.settings.ExtraTagCount,
		Defaults:    s.settings.DefaultTags,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxOutputTokens,
	}), nil
}
