package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		content     string
		want        []string
		wantVariant string
	}{
		{
			name:        "output_json chunk",
			raw:         `{"output":[{"content":[{"type":"output_json","json":{"tags":["cache","server","network"]}}]}]}`,
			want:        []string{"cache", "server", "network"},
			wantVariant: "output_json",
		},
		{
			name:        "plural outputs key with json chunk",
			raw:         `{"outputs":[{"content":[{"type":"json","json":{"tags":["memo"]}}]}]}`,
			want:        []string{"memo"},
			wantVariant: "output_json",
		},
		{
			name:        "output_text holding JSON",
			raw:         `{"output":[{"content":[{"type":"output_text","text":"{\"tags\":[\"a1\",\"b2\"]}"}]}]}`,
			want:        []string{"a1", "b2"},
			wantVariant: "output_text",
		},
		{
			name:        "output_text comma list",
			raw:         `{"output":[{"content":[{"type":"output_text","text":"cache, server\nnetwork"}]}]}`,
			want:        []string{"cache", "server", "network"},
			wantVariant: "output_text",
		},
		{
			name:        "chat choices",
			raw:         `{"choices":[{"message":{"content":"- cache\n- server\n- network"}}]}`,
			want:        []string{"cache", "server", "network"},
			wantVariant: "choices",
		},
		{
			name:        "json chunk without tags falls through to text",
			raw:         `{"output":[{"content":[{"type":"output_json","json":{"labels":["x"]}},{"type":"output_text","text":"memo"}]}]}`,
			want:        []string{"memo"},
			wantVariant: "output_text",
		},
		{
			name:        "content only",
			raw:         "not json",
			content:     "Here are the tags:\n1. cache\n2. server",
			want:        []string{"cache", "server"},
			wantVariant: "content",
		},
		{
			name:        "bare JSON array in content",
			content:     `["cache","server"]`,
			want:        []string{"cache", "server"},
			wantVariant: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, variant, ok := extract([]byte(tt.raw), tt.content)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantVariant, variant)
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	_, _, ok := extract([]byte(`{"output":[]}`), "  ")
	assert.False(t, ok)

	_, _, ok = extract(nil, "")
	assert.False(t, ok)
}

func TestFinishReason(t *testing.T) {
	env := envelope{Choices: []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	}{{FinishReason: "length"}}}
	assert.Equal(t, "length", env.finishReason())
}
