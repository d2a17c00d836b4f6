// Package config resolves where the episode tool keeps its settings and
// loads the per-site Settings file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the per-user configuration directory.
//
// Resolution:
//   - $EPISODES_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/episodes if set (respects XDG on any platform)
//   - %AppData%/episodes on Windows
//   - ~/.config/episodes on macOS and Linux
func Dir() string {
	if dir := os.Getenv("EPISODES_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "episodes")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "episodes")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "episodes")
}

// SiteRoot returns the root of the site being authored: $EPISODES_ROOT when
// set, otherwise the working directory.
func SiteRoot() (string, error) {
	if root := os.Getenv("EPISODES_ROOT"); root != "" {
		return filepath.Abs(root)
	}
	return os.Getwd()
}
