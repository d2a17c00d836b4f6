package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestIsTTY_Buffer(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}
}

func TestIsTTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck // test cleanup

	if IsTTY(f) {
		t.Error("IsTTY(regular file) should return false")
	}
}

func TestNewPrinter_NonTTYClearsStyles(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	empty := lipgloss.NewStyle()
	if printer.Styles().Error.GetForeground() != empty.GetForeground() {
		t.Error("Error style should have no foreground color when not a TTY")
	}
	if printer.Styles().Prompt.GetForeground() != empty.GetForeground() {
		t.Error("Prompt style should have no foreground color when not a TTY")
	}
}

func TestNewPrinter_TTYKeepsStyles(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, true)

	empty := lipgloss.NewStyle()
	if printer.Styles().Error.GetForeground() == empty.GetForeground() {
		t.Error("Error style should have a foreground color on a TTY")
	}
}

func TestNonTTY_NoANSI(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Error(NewUserError("test error"))
	printer.Prompt("Episode title: ")
	printer.Table([]string{"ID", "Title"}, [][]string{{"abc", "episode001 – Pilot"}})

	if containsANSI(buf.String()) {
		t.Errorf("non-TTY output should contain no ANSI codes, got: %q", buf.String())
	}
}

// containsANSI checks if a string contains ANSI escape sequences.
func containsANSI(s string) bool {
	for i := range len(s) - 1 {
		if s[i] == '\033' && s[i+1] == '[' {
			return true
		}
	}
	return false
}
