package source

import (
	"strings"

	"github.com/jobradar/jobradar/internal/lead"
)

// AutoDetect is the sentinel hint meaning "sniff the document".
const AutoDetect = "auto"

// signature pairs a source with a substring that identifies its documents.
// Scanned in order: the first marker found in the lower-cased document wins,
// so the order below is the fixed detection precedence. Real-world snapshots
// are frequently ambiguous (mirrored or truncated copies), hence the
// second-level brute-force trial in Dispatch.
type signature struct {
	source string
	marker string
}

var signatures = []signature{
	{"linkedin", "linkedin.com"},
	{"linkedin", "jobs-search__results-list"},
	{"indeed", "indeed.com"},
	{"indeed", "job_seen_beacon"},
	{"glassdoor", "glassdoor.com"},
	{"glassdoor", "joblisting"},
	{"wellfound", "wellfound.com"},
	{"wellfound", "angel.co"},
	{"greenhouse", "greenhouse.io"},
	{"greenhouse", "gh_jid"},
	{"lever", "lever.co"},
	{"lever", "posting-title"},
	{"workable", "workable.com"},
	{"workable", "whr-item"},
}

// Registry maps source names to adapters and implements two-level dispatch:
// content sniffing first, then an ordered trial of every adapter.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry builds a Registry with all seven builtin adapters registered
// in detection precedence order.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range []Adapter{
		LinkedIn{},
		Indeed{},
		Glassdoor{},
		Wellfound{},
		Greenhouse{},
		Lever{},
		Workable{},
	} {
		r.adapters[a.Name()] = a
		r.order = append(r.order, a.Name())
	}
	return r
}

// Adapter returns the adapter registered under name.
func (r *Registry) Adapter(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the registered source names in detection precedence order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Detect scans the lower-cased document for source-identifying substrings
// and returns the first matching source, or AutoDetect when none match.
func (r *Registry) Detect(html string) string {
	lower := strings.ToLower(html)
	for _, sig := range signatures {
		if strings.Contains(lower, sig.marker) {
			return sig.source
		}
	}
	return AutoDetect
}

// Dispatch routes raw markup to the right adapter. A known hint calls that
// adapter directly. With AutoDetect the document is sniffed first; if
// sniffing fails every adapter is trialed in precedence order and the first
// non-empty result wins. Returns the postings and the resolved source name
// (AutoDetect when everything came up empty).
func (r *Registry) Dispatch(html, hint string) ([]lead.Posting, string) {
	if hint != "" && hint != AutoDetect {
		if a, ok := r.adapters[hint]; ok {
			return a.FromMarkup(html), hint
		}
	}

	if detected := r.Detect(html); detected != AutoDetect {
		return r.adapters[detected].FromMarkup(html), detected
	}

	for _, name := range r.order {
		if postings := r.adapters[name].FromMarkup(html); len(postings) > 0 {
			return postings, name
		}
	}
	return []lead.Posting{}, AutoDetect
}
