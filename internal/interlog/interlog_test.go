package interlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestWrite_FileNameAndFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	w := New(dir, 12, zerolog.Nop(), WithClock(func() time.Time { return at }))

	w.Write(Entry{
		Source:       "openai",
		Model:        "gpt-4o-mini",
		System:       "sys",
		User:         "user prompt",
		Response:     `{"tags":["cache"]}`,
		Tags:         []string{"cache"},
		FinishReason: "completed",
		InputTokens:  10,
		OutputTokens: 2,
		TotalTokens:  12,
	})

	path := filepath.Join(dir, "openai_2026-03-04-05-06-07.890.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file %s: %v", path, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, data)
	}
	if fields["source"] != "openai" || fields["model"] != "gpt-4o-mini" || fields["user"] != "user prompt" {
		t.Errorf("fields = %v", fields)
	}
	if tags, _ := fields["tags"].([]any); len(tags) != 1 || tags[0] != "cache" {
		t.Errorf("tags = %v", fields["tags"])
	}
	if _, ok := fields["error"]; ok {
		t.Error("error field should be omitted on success")
	}
	usage, _ := fields["usage"].(map[string]any)
	if usage["total_tokens"] != float64(12) {
		t.Errorf("usage = %v", fields["usage"])
	}
}

func TestWrite_ErrorEntry(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, 12, zerolog.Nop())

	w.Write(Entry{Source: "openai", Error: "HTTP 500", Status: 500, Response: "boom"})

	files, err := w.Files()
	if err != nil || len(files) != 1 {
		t.Fatalf("Files() = %v, %v", files, err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, files[0]))
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["error"] != "HTTP 500" || fields["status"] != float64(500) {
		t.Errorf("fields = %v", fields)
	}
	if _, ok := fields["tags"]; ok {
		t.Error("tags should be omitted when nil")
	}
}

func TestWrite_SameMillisecondGetsDistinctFile(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	w := New(dir, 12, zerolog.Nop(), WithClock(func() time.Time { return at }))

	w.Write(Entry{Source: "a"})
	w.Write(Entry{Source: "b"})

	files, err := w.Files()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"openai_2026-03-04-05-06-07.000.log", "openai_2026-03-04-05-06-07.001.log"}
	if len(files) != 2 || files[0] != want[0] || files[1] != want[1] {
		t.Errorf("Files() = %v, want %v", files, want)
	}
}

func TestWrite_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := New(dir, 3, zerolog.Nop(), WithClock(fixedClock(start, time.Second)))

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}
	for range 5 {
		w.Write(Entry{Source: "openai"})
	}

	files, err := w.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("len(Files()) = %d, want 3: %v", len(files), files)
	}
	if files[0] != "openai_2026-01-01-00-00-02.000.log" {
		t.Errorf("oldest kept = %s", files[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("unrelated files must survive pruning")
	}
}

func TestWrite_FailureIsSwallowed(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	w := New(filepath.Join(blocker, "logs"), 12, zerolog.Nop())

	w.Write(Entry{Source: "openai"})

	var nilWriter *Writer
	nilWriter.Write(Entry{Source: "openai"})
}

func TestNew_DefaultRetention(t *testing.T) {
	if w := New(t.TempDir(), 0, zerolog.Nop()); w.maxFiles != DefaultMaxFiles {
		t.Errorf("maxFiles = %d, want %d", w.maxFiles, DefaultMaxFiles)
	}
}
