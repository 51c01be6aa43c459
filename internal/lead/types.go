// Package lead defines core types shared across subsystems.
package lead

import "time"

// Posting is the normalized record every source adapter produces.
// It is immutable after construction: adapters are the only writers.
type Posting struct {
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	JobURL      string `json:"jobUrl"`
	Description string `json:"description"`
	Salary      string `json:"salary,omitempty"`
	Source      string `json:"source"`
}

// Status represents the pipeline stage of a persisted lead.
type Status string

// Lead status values persisted in the lead store.
const (
	StatusNew       Status = "new"
	StatusReviewing Status = "reviewing"
	StatusApplied   Status = "applied"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusReviewing, StatusApplied, StatusArchived:
		return true
	}
	return false
}

// ValidTransition reports whether a status change is allowed.
// Any stage can be archived; otherwise stages only move forward.
func ValidTransition(from, to Status) bool {
	if to == StatusArchived {
		return from != StatusArchived
	}
	order := map[Status]int{
		StatusNew:       0,
		StatusReviewing: 1,
		StatusApplied:   2,
	}
	a, okA := order[from]
	b, okB := order[to]
	return okA && okB && b == a+1
}

// Lead is the persisted form of a Posting. JobURL is globally unique:
// exactly one Lead exists per distinct posting URL, enforced at the store.
type Lead struct {
	ID         string    `json:"id"`
	Posting    Posting   `json:"posting"`
	MatchScore int       `json:"matchScore"`
	Status     Status    `json:"status"`
	Priority   int       `json:"priority"`
	CompanyID  string    `json:"companyId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Zone is a user-authored rule set: search parameters plus keyword flags.
// Flags are stored as authored and case-folded only at match time.
type Zone struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	SearchTitle    string   `json:"searchTitle"`
	SearchLocation string   `json:"searchLocation"`
	GreenFlags     []string `json:"greenFlags"`
	RedFlags       []string `json:"redFlags"`
	Sources        []string `json:"sources"`
	Active         bool     `json:"active"`
}

// Source is a registry row describing a participating job source.
// Builtin rows are seeded at startup and cannot be deleted.
type Source struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
	Builtin bool   `json:"builtin"`
}

// FlagMatch is one audit entry recorded by the scoring engine.
type FlagMatch struct {
	Flag   string `json:"flag"`
	Field  string `json:"field"`
	Points int    `json:"points"`
}

// Matches groups the audit trail by flag polarity.
type Matches struct {
	GreenFlags []FlagMatch `json:"greenFlags"`
	RedFlags   []FlagMatch `json:"redFlags"`
}

// ScoreResult is the scoring engine output for one posting.
type ScoreResult struct {
	Score   int     `json:"score"`
	Matches Matches `json:"matches"`
}
