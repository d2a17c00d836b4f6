package prompt

import (
	"strings"
)

// preamblePatterns are lead-in lines models put before the answer.
// Each is matched case-insensitively as a prefix of a leading line.
var preamblePatterns = []string{
	"here is",
	"here are",
	"here's",
	"sure,",
	"sure!",
	"okay,",
	"certainly",
	"of course",
	"based on",
	"i'd suggest",
	"i suggest",
	"suggested tags",
	"tags:",
}

// signoffPatterns are trailing remarks appended after the answer.
var signoffPatterns = []string{
	"let me know",
	"feel free to",
	"hope this helps",
	"would you like",
	"if you need",
	"if you'd like",
}

// SanitizeOutput strips a Markdown code fence and common lead-in and sign-off
// lines from a model reply, leaving the payload.
func SanitizeOutput(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	content = stripFence(content)
	content = stripPreamble(content)
	content = stripSignoff(content)
	return strings.TrimSpace(content)
}

// stripFence unwraps content enclosed in a ``` fence, with or without a language tag.
func stripFence(content string) string {
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") || len(content) < 6 {
		return content
	}
	inner := strings.TrimSuffix(content[3:], "```")
	if _, rest, ok := strings.Cut(inner, "\n"); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(inner)
}

// stripPreamble removes at most 3 leading lines that match preamble patterns.
func stripPreamble(content string) string {
	lines := strings.SplitN(content, "\n", 5)
	stripped := 0

	for stripped < len(lines) && stripped < 3 {
		line := strings.TrimSpace(lines[stripped])
		if line == "" || matchesAnyPrefix(line, preamblePatterns) {
			stripped++
			continue
		}
		break
	}
	if stripped == 0 {
		return content
	}
	return strings.Join(lines[stripped:], "\n")
}

// stripSignoff removes trailing lines that match sign-off patterns.
func stripSignoff(content string) string {
	lines := strings.Split(content, "\n")

	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" || matchesAnyPrefix(line, signoffPatterns) {
			end--
			continue
		}
		break
	}
	if end == len(lines) {
		return content
	}
	return strings.Join(lines[:end], "\n")
}

func matchesAnyPrefix(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
