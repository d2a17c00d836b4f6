// Package envfile loads credentials from dotenv files in the site root and
// the per-user config directory. Variables already set in the environment
// always win, and earlier files win over later ones.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SiteFiles returns the dotenv files consulted for a site, in precedence order.
func SiteFiles(root, configDir string) []string {
	files := []string{
		filepath.Join(root, ".env.local"),
		filepath.Join(root, ".env"),
	}
	if configDir != "" {
		files = append(files, filepath.Join(configDir, "env"))
	}
	return files
}

// LoadAll loads each file in order. Missing files are skipped; the first
// read failure stops loading.
func LoadAll(paths ...string) error {
	for _, path := range paths {
		if err := Load(path); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a dotenv file and sets any variables not already in the
// environment. A missing file is not an error.
func Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	vars, err := Parse(file)
	if err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	for _, v := range vars {
		if _, set := os.LookupEnv(v.Key); set && os.Getenv(v.Key) != "" {
			continue
		}
		_ = os.Setenv(v.Key, v.Value)
	}
	return nil
}

// Var is one KEY=VALUE assignment.
type Var struct {
	Key   string
	Value string
}

// Parse returns the assignments in r in file order, skipping blank lines,
// comments and malformed lines.
func Parse(r io.Reader) ([]Var, error) {
	var vars []Var
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		vars = append(vars, Var{Key: key, Value: value})
	}
	return vars, scanner.Err()
}

// parseEnvLine splits KEY=VALUE, dropping an export prefix and one level of
// matching quotes around the value.
func parseEnvLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}
