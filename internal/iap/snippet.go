package iap

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/emberwatch/fireline/internal/models"
)

const (
	snippetMaxLen       = 300
	snippetMaxSentences = 2
)

// categoryKeywords drives snippet extraction: a sentence qualifies when it
// contains any keyword for the requested category.
var categoryKeywords = map[models.InsightCategory][]string{
	models.CategoryEvacuation: {"evacuat", "wind", "humidity", "shelter", "route", "closure"},
	models.CategoryResources:  {"crew", "engine", "helicopter", "dozer", "strike team", "resource"},
	models.CategoryTactics:    {"ridge", "slope", "terrain", "anchor", "flank", "contain", "control line"},
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// extractSnippet pulls the supporting text for one insight. It searches the
// chosen section for keyword sentences, then falls back in order to the
// record's tactical lessons, its retained raw text, and finally the
// section's first two sentences.
func extractSnippet(record models.IAPRecord, section models.IAPSection, category models.InsightCategory) string {
	sentences := splitSentences(section.Content)

	var matched []string
	for _, s := range sentences {
		if containsAny(strings.ToLower(s), categoryKeywords[category]) {
			matched = append(matched, s)
			if len(matched) == snippetMaxSentences {
				break
			}
		}
	}
	if len(matched) > 0 {
		return truncate(strings.Join(matched, " "))
	}

	if len(record.Lessons) > 0 {
		n := len(record.Lessons)
		if n > snippetMaxSentences {
			n = snippetMaxSentences
		}
		return truncate(strings.Join(record.Lessons[:n], "; "))
	}

	if record.RawText != "" {
		return truncate(record.RawText)
	}

	n := len(sentences)
	if n > snippetMaxSentences {
		n = snippetMaxSentences
	}
	return truncate(strings.Join(sentences[:n], " "))
}

func splitSentences(text string) []string {
	raw := sentenceRe.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	if len(s) <= snippetMaxLen {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := snippetMaxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
