// Package normalize provides the text cleanup and dedup layer shared by all
// source adapters.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jobradar/jobradar/internal/lead"
)

// MaxDescriptionLen caps posting descriptions before persistence.
const MaxDescriptionLen = 500

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	htmlTags       = regexp.MustCompile(`<[^>]*>`)
)

// CleanText collapses all whitespace runs (newlines and tabs included) to
// single spaces and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// StripTags removes HTML markup from free-text API fields. Tags are replaced
// with spaces so adjacent words do not fuse, then whitespace is collapsed.
func StripTags(s string) string {
	return CleanText(htmlTags.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most n bytes without splitting a rune: if the
// byte boundary lands inside a multibyte sequence, the cut backs up to the
// previous rune start so the result stays valid UTF-8.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Deduplicate returns postings in original order, keeping only the first
// occurrence of each JobURL. Postings with an empty JobURL are dropped.
func Deduplicate(postings []lead.Posting) []lead.Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]lead.Posting, 0, len(postings))
	for _, p := range postings {
		if p.JobURL == "" {
			continue
		}
		if _, dup := seen[p.JobURL]; dup {
			continue
		}
		seen[p.JobURL] = struct{}{}
		out = append(out, p)
	}
	return out
}
