package publisher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder errors. Both leave the file untouched.
var (
	ErrPlaceholderMissing = errors.New("placeholder file not found")
	ErrPlaceholderFormat  = errors.New("placeholder file has unexpected structure")
)

var (
	placeholderPattern = regexp.MustCompile(`(?s)\A(---[ \t\r]*\n.*?\n---[ \t\r]*\n)(.*)\z`)
	blurbBlockPattern  = regexp.MustCompile(`(blurb:[ \t]*&blurb[ \t]*>-[ \t]*\n)(?:  .*\n)+`)
)

// RewritePlaceholder replaces the anchored blurb block and the first
// non-blank body line of the placeholder file at path with teaser.
func RewritePlaceholder(path, teaser string) error {
	teaser = strings.TrimSpace(teaser)
	if teaser == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPlaceholderMissing, path)
	}
	if err != nil {
		return fmt.Errorf("reading placeholder: %w", err)
	}

	updated, err := rewriteTeaser(string(data), teaser)
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading placeholder: %w", err)
	}
	return atomicWrite(path, []byte(updated), info.Mode().Perm())
}

func rewriteTeaser(raw, teaser string) (string, error) {
	m := placeholderPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: front matter not found", ErrPlaceholderFormat)
	}
	front, body := m[1], m[2]

	loc := blurbBlockPattern.FindStringSubmatchIndex(front)
	if loc == nil {
		return "", fmt.Errorf("%w: blurb block not found", ErrPlaceholderFormat)
	}
	front = front[:loc[0]] + front[loc[2]:loc[3]] + "  " + teaser + "\n" + front[loc[1]:]

	lines := strings.SplitAfter(body, "\n")
	replaced := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		leading := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		lines[i] = leading + teaser + "\n"
		replaced = true
		break
	}
	body = strings.Join(lines, "")
	if !replaced {
		body = teaser + "\n" + body
	}
	return front + body, nil
}

// atomicWrite writes data to path using write-to-temp-then-rename. The
// replacement gets perm, so the rewrite keeps the file's mode.
func atomicWrite(path string, data []byte, perm fs.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".episode-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
