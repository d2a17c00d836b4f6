package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fortyninthit/episodes/internal/output"
)

// ErrEndOfInput is returned by every prompt when input is exhausted. The
// session ends without saving anything.
var ErrEndOfInput = errors.New("input ended")

// Prompter reads answers line by line and writes prompts through a Printer.
type Prompter struct {
	in  *bufio.Reader
	out *output.Printer
}

// NewPrompter returns a Prompter reading from in.
func NewPrompter(in io.Reader, out *output.Printer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; only a read that yields nothing is
// end of input.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			return "", ErrEndOfInput
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	p.out.Prompt(label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts for a value. An empty answer takes def when def is set; a
// required prompt repeats until it gets something.
func (p *Prompter) Ask(label, def string, required bool) (string, error) {
	if def != "" {
		label += " [" + def + "]"
	}
	for {
		input, err := p.Line(label + ": ")
		if err != nil {
			return "", err
		}
		if input == "" {
			input = def
		}
		if !required || input != "" {
			return input, nil
		}
		p.out.Hint("This value is required.")
	}
}

// YesNo asks a yes/no question; an empty answer takes def.
func (p *Prompter) YesNo(question string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	for {
		input, err := p.Line(question + " " + suffix + " ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.out.Hint("Please answer y or n.")
	}
}

// Multiline collects lines until one equals terminator and returns them
// joined and trimmed.
func (p *Prompter) Multiline(label, terminator string) (string, error) {
	p.out.Println(label + " (finish with " + strconv.Quote(terminator) + " on its own line):")
	var lines []string
	for {
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == terminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
