package textnorm

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// blocks returns the plain text of each top-level block in body.
func blocks(body string) []string {
	source := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var out []string
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		var sb strings.Builder
		_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch node := n.(type) {
			case *ast.Text:
				sb.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte(' ')
				}
			case *ast.String:
				sb.Write(node.Value)
			case *ast.CodeBlock, *ast.FencedCodeBlock:
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					line := lines.At(i)
					sb.WriteString(strings.TrimSpace(string(line.Value(source))))
					sb.WriteByte(' ')
				}
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		})
		if txt := strings.TrimSpace(sb.String()); txt != "" {
			out = append(out, txt)
		}
	}
	return out
}

// ParagraphCount returns the number of top-level Markdown blocks with text.
func ParagraphCount(body string) int {
	return len(blocks(body))
}

// BodyPreview joins the text of the first three blocks with " / " and
// truncates the result to limit characters, appending "..." when anything was
// left out. Empty bodies preview as "(empty)".
func BodyPreview(body string, limit int) string {
	all := blocks(body)
	if len(all) == 0 {
		return "(empty)"
	}

	shown := all
	if len(shown) > 3 {
		shown = shown[:3]
	}
	preview := strings.Join(shown, " / ")
	truncated := len(all) > len(shown)

	if runes := []rune(preview); limit > 0 && len(runes) > limit {
		preview = string(runes[:limit])
		truncated = true
	}
	if truncated {
		preview += "..."
	}
	return preview
}
