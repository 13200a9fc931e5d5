package recommender

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	boldPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	listItemPattern = regexp.MustCompile(`(?m)^[\d\-*]\.\s+(.+)$`)
	listItemPrefix  = regexp.MustCompile(`^[\d\-*]\.\s+`)
)

// maxListItemLen bounds list items, counted in UTF-16 code units so stored
// content extracts the same concepts it always has.
const maxListItemLen = 100

// ExtractKeyConcepts pulls bold phrases and then numbered or bulleted items
// out of markdown content. Duplicates are dropped and at most 10 are kept.
func ExtractKeyConcepts(content string) []string {
	var concepts []string

	for _, m := range boldPattern.FindAllString(content, -1) {
		concept := strings.TrimSpace(strings.ReplaceAll(m, "**", ""))
		if concept != "" {
			concepts = append(concepts, concept)
		}
	}

	for _, m := range listItemPattern.FindAllString(content, -1) {
		concept := strings.TrimSpace(listItemPrefix.ReplaceAllString(m, ""))
		if n := utf16Len(concept); n > 0 && n < maxListItemLen {
			concepts = append(concepts, concept)
		}
	}

	seen := make(map[string]bool, len(concepts))
	unique := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
		if len(unique) == MaxKeyConcepts {
			break
		}
	}
	return unique
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
