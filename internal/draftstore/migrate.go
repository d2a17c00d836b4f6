package draftstore

import (
	"os"
	"path/filepath"
)

// MigrateStats counts what Migrate did with legacy draft files.
type MigrateStats struct {
	Moved     int
	Discarded int
	Failed    int
}

// Migrate moves drafts from the legacy directories into the canonical one.
// When a draft of the same name already exists canonically the legacy copy
// is discarded. Per-file failures are logged and skipped. Emptied legacy
// directories are removed.
func (s *Store) Migrate() MigrateStats {
	var stats MigrateStats

	canonical, _ := filepath.Abs(s.dir)
	for _, legacyDir := range s.legacy {
		if abs, _ := filepath.Abs(legacyDir); abs == canonical {
			continue
		}
		files, err := filepath.Glob(filepath.Join(legacyDir, "*"+draftExt))
		if err != nil || len(files) == 0 {
			continue
		}

		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			s.log.Warn().Err(err).Str("dir", s.dir).Msg("draft migration failed")
			stats.Failed += len(files)
			continue
		}

		s.log.Info().Int("count", len(files)).Str("from", legacyDir).Msg("migrating drafts")
		for _, legacy := range files {
			discarded, err := migrateFile(legacy, filepath.Join(s.dir, filepath.Base(legacy)))
			switch {
			case err != nil:
				stats.Failed++
				s.log.Warn().Err(err).Str("path", legacy).Msg("failed to migrate draft")
			case discarded:
				stats.Discarded++
			default:
				stats.Moved++
			}
		}

		if entries, err := os.ReadDir(legacyDir); err == nil && len(entries) == 0 {
			_ = os.Remove(legacyDir)
		}
	}
	return stats
}

// migrateFile moves legacy to target, or removes legacy when target exists.
func migrateFile(legacy, target string) (discarded bool, err error) {
	if _, statErr := os.Stat(target); statErr == nil {
		return true, os.Remove(legacy)
	}
	return false, os.Rename(legacy, target)
}
