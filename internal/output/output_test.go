package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	err := printer.Success(map[string]any{
		"episode":      7,
		"publish_date": "2026-10-20",
	})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["publish_date"] != "2026-10-20" {
		t.Errorf("publish_date = %v, want %q", result["publish_date"], "2026-10-20")
	}
	if episode, ok := result["episode"].(float64); !ok || int(episode) != 7 {
		t.Errorf("episode = %v, want 7", result["episode"])
	}
}

func TestPrinter_JSON_Error(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewConflictError("episode file already exists"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["error"] != "episode file already exists" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitConflict {
		t.Errorf("code = %v, want %d", result["code"], ExitConflict)
	}
}

func TestPrinter_Human_Error_UntypedError(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Error(errors.New("plain failure"))

	out := buf.String()
	if !strings.Contains(out, "Error: plain failure") {
		t.Errorf("output = %q, want to contain 'Error: plain failure'", out)
	}
}

func TestPrinter_WithStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := NewPrinter(&stdout, false, false).WithStderr(&stderr)

	printer.Warn("placeholder missing at %s", "_posts/x.md")
	printer.Println("review")

	if !strings.Contains(stderr.String(), "Warning: placeholder missing at _posts/x.md") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.String() != "review\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "review\n")
	}
}

func TestPrinter_PromptAndHint(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Prompt("Blurb: ")
	printer.Hint("This value is required.")
	printer.Notice("Saved draft %s", "abc")

	want := "Blurb: This value is required.\nSaved draft abc\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Table_Plain(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table([]string{"Channel", "Files"}, [][]string{
		{"med", "4"},
		{"bsky"},
	})

	out := buf.String()
	for _, want := range []string{"Channel", "Files", "med", "4", "bsky"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "╭") {
		t.Errorf("plain table should not have rounded borders: %q", out)
	}
}

func TestPrinter_Table_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table(nil, [][]string{{"x"}})

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPrinter_Box_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Box("Review", "1. Episode title: x")

	if buf.String() != "Review\n1. Episode title: x\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_KeyValue(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.KeyValue("Slug", "episode007-test")

	if buf.String() != "Slug: episode007-test\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestErrorJSON_Format(t *testing.T) {
	result := ErrorJSON("test error", ExitUserError)

	var parsed struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("Failed to parse ErrorJSON output: %v", err)
	}
	if parsed.Error != "test error" || parsed.Code != ExitUserError {
		t.Errorf("parsed = %+v", parsed)
	}
}
