// Package source contains the per-platform extraction adapters and the
// registry that dispatches raw documents to them.
//
// Every adapter is total: malformed, empty, or non-HTML input yields an
// empty slice, never a panic or an error. Extraction works through tiered
// rule chains — an ordered list of strategies tried until one produces a
// result — so a single bad selector cannot sink the whole parse.
package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/normalize"
)

// Adapter converts raw markup or a board API payload into normalized
// postings. Sources without a public API return nil from FromAPI.
type Adapter interface {
	Name() string
	FromMarkup(html string) []lead.Posting
	FromAPI(data []byte, org string) []lead.Posting
}

// loadDoc parses markup, returning nil when there is nothing to scan.
func loadDoc(html string) *goquery.Document {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

// selectContainers tries container rules in order and returns the matches of
// the first rule that yields at least one node.
func selectContainers(doc *goquery.Document, rules []string) *goquery.Selection {
	for _, rule := range rules {
		if rule == "" {
			continue
		}
		sel := doc.Find(rule)
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// firstText tries field selectors in order within a container and returns
// the first non-empty cleaned text. Fields are independent: a miss here
// never blocks extraction of other fields.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}
		if text := normalize.CleanText(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstHref tries anchor selectors in order and returns the first non-empty
// href attribute.
func firstHref(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}
		if href, ok := s.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}
	return ""
}

// anchorFallback is the last extraction tier: scan the whole document for
// anchors whose href contains the source's identifying pattern and treat
// each as a minimal posting (title = link text, other fields empty).
func anchorFallback(doc *goquery.Document, pattern, sourceName string, canon func(string) string) []lead.Posting {
	var postings []lead.Posting
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, pattern) {
			return
		}
		title := normalize.CleanText(a.Text())
		if title == "" {
			return
		}
		postings = append(postings, lead.Posting{
			Title:  title,
			JobURL: canon(href),
			Source: sourceName,
		})
	})
	return postings
}

var salaryPattern = regexp.MustCompile(
	`[$£€]\s?\d[\d,]*(?:\.\d+)?\s?[kK]?(?:\s?[-–]\s?[$£€]?\s?\d[\d,]*(?:\.\d+)?\s?[kK]?)?`,
)

// findSalary extracts a currency-anchored figure from the container's full
// text. Best effort: empty when no currency symbol is present.
func findSalary(text string) string {
	return normalize.CleanText(salaryPattern.FindString(text))
}

// absoluteURL promotes a possibly-relative href onto the source's known
// host. Already-absolute URLs pass through untouched.
func absoluteURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return raw
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(u).String()
}

// stripQuery removes every query parameter except those named in keep,
// dropping tracking noise while preserving the identifying token.
// Fragments are always discarded. Canonicalization is idempotent.
func stripQuery(raw string, keep ...string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	if u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	kept := url.Values{}
	for _, k := range keep {
		if v := q.Get(k); v != "" {
			kept.Set(k, v)
		}
	}
	u.RawQuery = kept.Encode()
	return u.String()
}

// finish applies the shared invariants to an adapter's raw extraction:
// postings without a title are dropped, descriptions are capped, and the
// result is passed through the shared deduplicator.
func finish(postings []lead.Posting) []lead.Posting {
	out := make([]lead.Posting, 0, len(postings))
	for _, p := range postings {
		if p.Title == "" {
			continue
		}
		p.Description = normalize.Truncate(p.Description, normalize.MaxDescriptionLen)
		out = append(out, p)
	}
	return normalize.Deduplicate(out)
}
