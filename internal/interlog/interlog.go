// Package interlog records each exchange with the text-generation service as
// its own small JSON file and keeps only the newest few.
package interlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	filePrefix  = "openai_"
	fileSuffix  = ".log"
	stampLayout = "2006-01-02-15-04-05.000"

	// DefaultMaxFiles is the retention count used when none is configured.
	DefaultMaxFiles = 12
)

// Entry is one interaction record.
type Entry struct {
	Source       string
	Model        string
	System       string
	User         string
	Response     string
	Tags         []string
	Error        string
	Status       int
	FinishReason string
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Writer writes entries under a directory. Failures never reach the caller;
// they are reported on the diagnostic logger at debug level.
type Writer struct {
	dir      string
	maxFiles int
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source used for file names and timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// New returns a Writer for dir keeping at most maxFiles records.
func New(dir string, maxFiles int, logger zerolog.Logger, opts ...Option) *Writer {
	if maxFiles < 1 {
		maxFiles = DefaultMaxFiles
	}
	w := &Writer{dir: dir, maxFiles: maxFiles, now: time.Now, log: logger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the log directory.
func (w *Writer) Dir() string { return w.dir }

// Write records e and prunes old records. A nil Writer discards the entry.
func (w *Writer) Write(e Entry) {
	if w == nil {
		return
	}
	path, err := w.write(e)
	if err != nil {
		w.log.Debug().Err(err).Msg("interaction log not written")
		return
	}
	if err := w.prune(); err != nil {
		w.log.Debug().Err(err).Str("path", path).Msg("interaction log pruning failed")
	}
}

func (w *Writer) write(e Entry) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	now := w.now()
	var f *os.File
	var path string
	for range 1000 {
		path = filepath.Join(w.dir, filePrefix+now.Format(stampLayout)+fileSuffix)
		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create log file: %w", err)
		}
		now = now.Add(time.Millisecond)
	}
	if f == nil {
		return "", fmt.Errorf("no free log file name in %s", w.dir)
	}

	logger := zerolog.New(f)
	event := logger.Log().
		Time("time", now).
		Str("source", e.Source).
		Str("model", e.Model).
		Str("system", e.System).
		Str("user", e.User).
		Str("response", e.Response)
	if e.Tags != nil {
		event = event.Strs("tags", e.Tags)
	}
	if e.Error != "" {
		event = event.Str("error", e.Error)
	}
	if e.Status != 0 {
		event = event.Int("status", e.Status)
	}
	if e.FinishReason != "" {
		event = event.Str("finish_reason", e.FinishReason)
	}
	if e.TotalTokens > 0 {
		event = event.Dict("usage", zerolog.Dict().
			Int64("input_tokens", e.InputTokens).
			Int64("output_tokens", e.OutputTokens).
			Int64("total_tokens", e.TotalTokens))
	}
	event.Send()

	if err := f.Close(); err != nil {
		return path, fmt.Errorf("close log file: %w", err)
	}
	return path, nil
}

// Files returns the interaction logs in dir, oldest first.
func (w *Writer) Files() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	// The timestamp layout sorts lexically.
	sort.Strings(names)
	return names, nil
}

func (w *Writer) prune() error {
	names, err := w.Files()
	if err != nil {
		return err
	}
	var errs []error
	for len(names) > w.maxFiles {
		if err := os.Remove(filepath.Join(w.dir, names[0])); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
		names = names[1:]
	}
	return errors.Join(errs...)
}
