package normalize

import "strings"

// SnippetWords caps the description snippet at roughly thirty words.
const SnippetWords = 30

// Snippet condenses a description to its first SnippetWords words.
func Snippet(desc string) string {
	words := strings.Fields(desc)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= SnippetWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:SnippetWords], " ") + "…"
}
