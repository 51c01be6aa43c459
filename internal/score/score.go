// Package score implements the relevance scoring engine.
//
// Scoring is a pure function of a posting and an immutable zone snapshot:
// identical inputs always yield identical output. Contributions from every
// active zone are summed for a posting — a posting matching three zones'
// green flags collects all three zones' points. Summing (rather than taking
// the best-matching zone) is a deliberate, locked-in behavior.
package score

import (
	"sort"
	"strings"

	"github.com/jobradar/jobradar/internal/lead"
)

// Per-field point weights. Titles carry the most positive weight; location
// is the most punitive red-flag field.
const (
	greenTitle       = 25
	greenCompany     = 15
	greenLocation    = 10
	greenDescription = 5

	redTitle       = -30
	redCompany     = -20
	redLocation    = -50
	redDescription = -10
)

type fieldWeight struct {
	name  string
	green int
	red   int
	text  func(lead.Posting) string
}

var fields = []fieldWeight{
	{"title", greenTitle, redTitle, func(p lead.Posting) string { return p.Title }},
	{"company", greenCompany, redCompany, func(p lead.Posting) string { return p.CompanyName }},
	{"location", greenLocation, redLocation, func(p lead.Posting) string { return p.Location }},
	{"description", greenDescription, redDescription, func(p lead.Posting) string { return p.Description }},
}

// Score evaluates a posting against the given zone snapshot. Inactive zones
// are ignored. Flags are case-folded at match time.
func Score(p lead.Posting, zones []lead.Zone) lead.ScoreResult {
	result := lead.ScoreResult{
		Matches: lead.Matches{
			GreenFlags: []lead.FlagMatch{},
			RedFlags:   []lead.FlagMatch{},
		},
	}

	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f.text(p))
	}

	for _, zone := range zones {
		if !zone.Active {
			continue
		}
		for _, flag := range zone.GreenFlags {
			needle := strings.ToLower(strings.TrimSpace(flag))
			if needle == "" {
				continue
			}
			for i, f := range fields {
				if strings.Contains(lowered[i], needle) {
					result.Score += f.green
					result.Matches.GreenFlags = append(result.Matches.GreenFlags, lead.FlagMatch{
						Flag:   flag,
						Field:  f.name,
						Points: f.green,
					})
				}
			}
		}
		for _, flag := range zone.RedFlags {
			needle := strings.ToLower(strings.TrimSpace(flag))
			if needle == "" {
				continue
			}
			for i, f := range fields {
				if strings.Contains(lowered[i], needle) {
					result.Score += f.red
					result.Matches.RedFlags = append(result.Matches.RedFlags, lead.FlagMatch{
						Flag:   flag,
						Field:  f.name,
						Points: f.red,
					})
				}
			}
		}
	}
	return result
}

// Scored pairs a posting with its score result.
type Scored struct {
	Posting lead.Posting
	Result  lead.ScoreResult
}

// Many scores a batch and returns it sorted by score descending. The sort is
// stable: ties preserve relative input order.
func Many(postings []lead.Posting, zones []lead.Zone) []Scored {
	out := make([]Scored, len(postings))
	for i, p := range postings {
		out[i] = Scored{Posting: p, Result: Score(p, zones)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Score > out[j].Result.Score
	})
	return out
}
