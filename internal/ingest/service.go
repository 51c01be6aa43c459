// Package ingest turns raw documents into persisted leads. It is the single
// write path shared by the manual ingestion entrypoint and the scheduled
// sweep, so the URL-uniqueness guarantee holds across both.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/metrics"
	"github.com/jobradar/jobradar/internal/score"
	"github.com/jobradar/jobradar/internal/source"
)

// Stats summarizes one ingestion call.
type Stats struct {
	Parsed     int `json:"parsed"`
	New        int `json:"new"`
	Duplicates int `json:"duplicates"`
}

// Service parses, scores, and persists postings.
type Service struct {
	registry *source.Registry
	leads    lead.LeadStore
	zones    lead.ZoneStore
	enricher lead.Enricher
	logger   *zap.Logger
	now      func() time.Time
}

// New constructs a Service.
func New(
	registry *source.Registry,
	leads lead.LeadStore,
	zones lead.ZoneStore,
	enricher lead.Enricher,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry: registry,
		leads:    leads,
		zones:    zones,
		enricher: enricher,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock (for tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ingest parses rawHTML via the registry, scores the postings against the
// current active-zone snapshot, and persists the previously-unseen ones.
// Empty input is not an error: it yields zero parsed postings.
func (s *Service) Ingest(ctx context.Context, rawHTML, sourceHint string) (Stats, []lead.Lead, error) {
	postings, resolved := s.registry.Dispatch(rawHTML, sourceHint)
	for _, p := range postings {
		metrics.PostingsParsed.WithLabelValues(p.Source).Inc()
	}

	zones, err := s.zones.ActiveZones(ctx)
	if err != nil {
		return Stats{}, nil, fmt.Errorf("load zones: %w", err)
	}

	scored := score.Many(postings, zones)
	created, duplicates, leads, err := s.SaveScored(ctx, scored)
	if err != nil {
		return Stats{}, nil, err
	}

	s.logger.Info("ingestion completed",
		zap.String("source", resolved),
		zap.Int("parsed", len(postings)),
		zap.Int("new", created),
		zap.Int("duplicates", duplicates),
	)
	return Stats{Parsed: len(postings), New: created, Duplicates: duplicates}, leads, nil
}

// SaveScored persists scored postings, returning how many leads were created
// and how many postings were discarded as duplicates of existing lead URLs.
func (s *Service) SaveScored(ctx context.Context, scored []score.Scored) (int, int, []lead.Lead, error) {
	var (
		created    int
		duplicates int
		leads      []lead.Lead
	)
	for _, item := range scored {
		now := s.now()
		l := lead.Lead{
			ID:         uuid.NewString(),
			Posting:    item.Posting,
			MatchScore: item.Result.Score,
			Status:     lead.StatusNew,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		l.CompanyID = s.enrichCompany(ctx, item.Posting.CompanyName)

		inserted, err := s.leads.InsertIfAbsent(ctx, l)
		if err != nil {
			return created, duplicates, leads, fmt.Errorf("insert lead: %w", err)
		}
		if !inserted {
			duplicates++
			metrics.Duplicates.Inc()
			continue
		}
		created++
		metrics.LeadsCreated.Inc()
		leads = append(leads, l)
	}
	return created, duplicates, leads, nil
}

// Rescore recomputes the match score of every persisted lead against the
// current zone snapshot. Returns the number of leads rescored.
func (s *Service) Rescore(ctx context.Context) (int, error) {
	zones, err := s.zones.ActiveZones(ctx)
	if err != nil {
		return 0, fmt.Errorf("load zones: %w", err)
	}
	leads, err := s.leads.ListLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leads: %w", err)
	}

	rescored := 0
	for _, l := range leads {
		result := score.Score(l.Posting, zones)
		if err := s.leads.UpdateScore(ctx, l.ID, result.Score); err != nil {
			return rescored, fmt.Errorf("update score for %s: %w", l.ID, err)
		}
		rescored++
	}
	s.logger.Info("rescore completed", zap.Int("rescored", rescored))
	return rescored, nil
}

// enrichCompany resolves a company profile id best-effort. Enrichment
// failures are logged and never block lead creation.
func (s *Service) enrichCompany(ctx context.Context, companyName string) string {
	if s.enricher == nil || companyName == "" {
		return ""
	}
	id, err := s.enricher.Lookup(ctx, companyName)
	if err != nil {
		s.logger.Debug("company enrichment failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return ""
	}
	return id
}
