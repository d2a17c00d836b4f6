package tags

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fortyninthit/episodes/internal/textnorm"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]{4,}`)

// Heuristic picks up to n tags from the most frequent words of at least four
// letters in body and blurb. Ties break alphabetically. Reserved words and
// words outside textnorm.TagPattern are never returned.
func Heuristic(body, blurb string, reserved []string, n int) []string {
	skip := make(map[string]bool, len(reserved))
	for _, tag := range reserved {
		skip[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(body+"\n\n"+blurb), -1) {
		if !skip[word] && textnorm.ValidTag(word) {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
