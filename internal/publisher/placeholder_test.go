package publisher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteTeaser(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "blurb and first body line",
			raw:  "---\nblurb: &blurb >-\n  Old teaser.\ndescription: *blurb\n---\n\nOld teaser.\nTail\n",
			want: "---\nblurb: &blurb >-\n  New one.\ndescription: *blurb\n---\n\nNew one.\nTail\n",
		},
		{
			name: "indent of body line kept",
			raw:  "---\nblurb: &blurb >-\n  a\n---\n\t  indented\n",
			want: "---\nblurb: &blurb >-\n  New one.\n---\n\t  New one.\n",
		},
		{
			name: "empty body gets teaser",
			raw:  "---\nblurb: &blurb >-\n  a\n---\n",
			want: "---\nblurb: &blurb >-\n  New one.\n---\nNew one.\n",
		},
		{
			name: "last line without newline",
			raw:  "---\nblurb: &blurb >-\n  a\n---\nOld",
			want: "---\nblurb: &blurb >-\n  New one.\n---\nNew one.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rewriteTeaser(tt.raw, "New one.")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteTeaser_BadStructure(t *testing.T) {
	for _, raw := range []string{
		"no front matter at all",
		"---\ntitle: x\n---\nbody\n",
		"---\nblurb: plain\n---\nbody\n",
	} {
		_, err := rewriteTeaser(raw, "New.")
		assert.ErrorIs(t, err, ErrPlaceholderFormat, raw)
	}
}

func TestRewritePlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-01-01-episodeNEXT.md")

	err := RewritePlaceholder(path, "Soon.")
	assert.ErrorIs(t, err, ErrPlaceholderMissing)

	original := "---\ntitle: x\n---\nbody\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))
	assert.ErrorIs(t, RewritePlaceholder(path, "Soon."), ErrPlaceholderFormat)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "malformed placeholder left untouched")

	assert.NoError(t, RewritePlaceholder(path, "   "), "blank teaser is a no-op")
}

func TestRewritePlaceholder_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-01-01-episodeNEXT.md")
	raw := "---\nblurb: &blurb >-\n  Old teaser.\n---\n\nOld teaser.\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, RewritePlaceholder(path, "New teaser."))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  New teaser.\n")
}
