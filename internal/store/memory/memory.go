// Package memory provides in-memory store implementations used by tests and
// no-database runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jobradar/jobradar/internal/lead"
)

// Store implements the lead, zone, and source store contracts in memory.
// The JobURL uniqueness constraint is enforced under a single mutex, giving
// the same insert-if-absent atomicity the SQL unique index provides.
type Store struct {
	mu      sync.Mutex
	leads   map[string]lead.Lead // keyed by id
	byURL   map[string]string    // job url -> lead id
	order   []string             // insertion order of lead ids
	zones   []lead.Zone
	sources map[string]lead.Source // keyed by name
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		leads:   make(map[string]lead.Lead),
		byURL:   make(map[string]string),
		sources: make(map[string]lead.Source),
	}
}

// InsertIfAbsent implements lead.LeadStore.
func (s *Store) InsertIfAbsent(_ context.Context, l lead.Lead) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byURL[l.Posting.JobURL]; exists {
		return false, nil
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.leads[l.ID] = l
	s.byURL[l.Posting.JobURL] = l.ID
	s.order = append(s.order, l.ID)
	return true, nil
}

// ListLeads implements lead.LeadStore. Leads come back sorted by score
// descending; ties keep insertion order.
func (s *Store) ListLeads(_ context.Context) ([]lead.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lead.Lead, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.leads[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out, nil
}

// UpdateScore implements lead.LeadStore.
func (s *Store) UpdateScore(_ context.Context, id string, matchScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return lead.ErrNotFound
	}
	l.MatchScore = matchScore
	s.leads[id] = l
	return nil
}

// UpdateStatus implements lead.LeadStore. Invalid transitions are rejected.
func (s *Store) UpdateStatus(_ context.Context, id string, status lead.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return lead.ErrNotFound
	}
	if !lead.ValidTransition(l.Status, status) {
		return lead.ErrInvalidTransition
	}
	l.Status = status
	s.leads[id] = l
	return nil
}

// ActiveZones implements lead.ZoneStore, returning zones in stored order.
func (s *Store) ActiveZones(_ context.Context) ([]lead.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lead.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		if z.Active {
			out = append(out, z)
		}
	}
	return out, nil
}

// PutZone appends or replaces a zone configuration.
func (s *Store) PutZone(z lead.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	for i, existing := range s.zones {
		if existing.ID == z.ID {
			s.zones[i] = z
			return
		}
	}
	s.zones = append(s.zones, z)
}

// Sources implements lead.SourceStore.
func (s *Store) Sources(_ context.Context) ([]lead.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lead.Source, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SeedBuiltins implements lead.SourceStore: existing rows are kept.
func (s *Store) SeedBuiltins(_ context.Context, sources []lead.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range sources {
		if _, exists := s.sources[src.Name]; exists {
			continue
		}
		if src.ID == "" {
			src.ID = uuid.NewString()
		}
		s.sources[src.Name] = src
	}
	return nil
}

// PutSource inserts or replaces a source row (test helper).
func (s *Store) PutSource(src lead.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	s.sources[src.Name] = src
}
