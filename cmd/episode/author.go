package main

import (
	"github.com/spf13/cobra"

	"github.com/fortyninthit/episodes/internal/output"
	"github.com/fortyninthit/episodes/internal/publisher"
	"github.com/fortyninthit/episodes/internal/wizard"
)

// runAuthor runs one interactive authoring session against the site.
func runAuthor(cmd *cobra.Command) error {
	s, err := openSite(cmd)
	if err != nil {
		return err
	}

	lk, err := s.lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			s.log.Warn().Err(err).Msg("failed to release session lock")
		}
	}()

	store := s.drafts()
	s.log.Debug().Str("lock", lk.Path()).Str("drafts", store.Dir()).Msg("session started")
	if stats := store.Migrate(); stats.Moved+stats.Discarded+stats.Failed > 0 {
		s.log.Info().Int("moved", stats.Moved).Int("discarded", stats.Discarded).Int("failed", stats.Failed).Msg("legacy drafts migrated")
	}

	seq := s.sequencer()
	engine, err := s.tagEngine()
	if err != nil {
		return err
	}
	pub := publisher.New(s.settings.Paths.PostsDir, s.settings.Paths.Placeholder, s.log,
		publisher.WithExporter(s.exporter()),
		publisher.WithDrafts(store),
		publisher.WithInvalidator(seq),
	)

	printer := output.NewPrinter(cmd.OutOrStdout(), false, useColor(cmd)).WithStderr(cmd.ErrOrStderr())
	session := wizard.New(
		wizard.NewPrompter(cmd.InOrStdin(), printer),
		printer,
		wizard.ConfigFromSettings(s.settings),
		seq, store, engine, pub, s.log,
	)

	result, err := session.Run(cmd.Context())
	if err != nil {
		if wizard.IsEndOfInput(err) {
			return output.NewUserErrorWithCause("input ended before the session finished; nothing was saved", err)
		}
		return err
	}
	s.log.Debug().Int("outcome", int(result.Outcome)).Str("path", result.Path).Str("draft", result.DraftID).Msg("session finished")
	return nil
}
