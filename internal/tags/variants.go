package tags

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/fortyninthit/episodes/internal/prompt"
)

// envelope covers the reply shapes seen across API versions: Responses
// output items (singular and plural key) and chat-completion choices.
type envelope struct {
	Output  []outputItem `json:"output"`
	Outputs []outputItem `json:"outputs"`
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type outputItem struct {
	FinishReason string `json:"finish_reason"`
	Content      []struct {
		Type string          `json:"type"`
		Text string          `json:"text"`
		JSON json.RawMessage `json:"json"`
	} `json:"content"`
}

type tagPayload struct {
	Tags []any `json:"tags"`
}

// variant extracts candidate tags from one reply shape. ok is false when the
// shape is absent or yields nothing.
type variant struct {
	name    string
	extract func(env *envelope, content string) (tags []string, ok bool)
}

// variants are tried in order; the first match wins.
var variants = []variant{
	{name: "output_json", extract: fromOutputJSON},
	{name: "output_text", extract: fromOutputText},
	{name: "choices", extract: fromChoices},
	{name: "content", extract: fromContent},
}

// extract runs the variants over a raw reply and its already-extracted text.
// It never fails; an unrecognised reply returns ok == false.
func extract(raw []byte, content string) (tags []string, matched string, ok bool) {
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{}
		}
	}
	for _, v := range variants {
		if tags, ok := v.extract(&env, content); ok {
			return tags, v.name, true
		}
	}
	return nil, "", false
}

func (e *envelope) items() []outputItem {
	if len(e.Output) > 0 {
		return e.Output
	}
	return e.Outputs
}

// finishReason reports the first finish reason present in the reply.
func (e *envelope) finishReason() string {
	for _, item := range e.items() {
		if item.FinishReason != "" {
			return item.FinishReason
		}
	}
	for _, choice := range e.Choices {
		if choice.FinishReason != "" {
			return choice.FinishReason
		}
	}
	return ""
}

func fromOutputJSON(env *envelope, _ string) ([]string, bool) {
	for _, item := range env.items() {
		for _, chunk := range item.Content {
			if chunk.Type != "output_json" && chunk.Type != "json" {
				continue
			}
			var payload tagPayload
			if err := json.Unmarshal(chunk.JSON, &payload); err != nil {
				continue
			}
			if tags := cleanList(stringsOf(payload.Tags)); len(tags) > 0 {
				return tags, true
			}
		}
	}
	return nil, false
}

func fromOutputText(env *envelope, _ string) ([]string, bool) {
	for _, item := range env.items() {
		for _, chunk := range item.Content {
			if chunk.Type != "output_text" && chunk.Type != "text" {
				continue
			}
			if tags := parseText(chunk.Text); len(tags) > 0 {
				return tags, true
			}
		}
	}
	return nil, false
}

func fromChoices(env *envelope, _ string) ([]string, bool) {
	for _, choice := range env.Choices {
		if tags := parseText(choice.Message.Content); len(tags) > 0 {
			return tags, true
		}
	}
	return nil, false
}

func fromContent(_ *envelope, content string) ([]string, bool) {
	tags := parseText(content)
	return tags, len(tags) > 0
}

var (
	listSeparator = regexp.MustCompile(`[,\n]`)
	listMarker    = regexp.MustCompile(`^(?:[-*\x{2022}]|\d+[.)])\s+`)
)

// parseText reads a {"tags": [...]} object, falling back to a comma or
// newline separated list.
func parseText(text string) []string {
	text = prompt.SanitizeOutput(text)
	if text == "" {
		return nil
	}
	var payload tagPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && payload.Tags != nil {
		return cleanList(stringsOf(payload.Tags))
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		var list []any
		if err := json.Unmarshal([]byte(text), &list); err == nil {
			return cleanList(stringsOf(list))
		}
	}

	parts := listSeparator.Split(text, -1)
	for i, part := range parts {
		parts[i] = listMarker.ReplaceAllString(strings.TrimSpace(part), "")
	}
	return cleanList(parts)
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case nil:
		default:
			if b, err := json.Marshal(t); err == nil {
				out = append(out, string(b))
			}
		}
	}
	return out
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
