// Package sweep implements the discovery orchestrator: one full pass across
// all active radar zones and their enabled sources.
//
// A sweep is synchronous and cooperative. Each zone × source pair is an
// independently fault-isolated unit of work: a fetch, parse, or persist
// failure inside one unit is logged and skipped without touching the
// counters already accumulated, and never aborts the rest of the sweep.
package sweep

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/metrics"
	"github.com/jobradar/jobradar/internal/score"
	"github.com/jobradar/jobradar/internal/source"
)

// Totals aggregates counters across a whole sweep.
type Totals struct {
	Processed int `json:"processed"`
	New       int `json:"new"`
}

// Orchestrator drives unattended acquisition across zone × source units.
type Orchestrator struct {
	zones    lead.ZoneStore
	sources  lead.SourceStore
	registry *source.Registry
	renderer lead.Renderer
	boards   lead.BoardClient
	ingest   *ingest.Service
	logger   *zap.Logger
}

// New constructs an Orchestrator.
func New(
	zones lead.ZoneStore,
	sources lead.SourceStore,
	registry *source.Registry,
	renderer lead.Renderer,
	boards lead.BoardClient,
	ingestSvc *ingest.Service,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		zones:    zones,
		sources:  sources,
		registry: registry,
		renderer: renderer,
		boards:   boards,
		ingest:   ingestSvc,
		logger:   logger,
	}
}

// Run executes one sweep. The zone list is read once up front and used as an
// immutable snapshot for scoring: zone edits during a long sweep are not
// reflected mid-sweep.
func (o *Orchestrator) Run(ctx context.Context) (Totals, error) {
	zones, err := o.zones.ActiveZones(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("load zones: %w", err)
	}
	registryRows, err := o.sources.Sources(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("load sources: %w", err)
	}
	rowsByName := make(map[string]lead.Source, len(registryRows))
	for _, row := range registryRows {
		rowsByName[row.Name] = row
	}

	var totals Totals
	for _, zone := range zones {
		if zone.SearchTitle == "" && zone.SearchLocation == "" {
			o.logger.Debug("zone has no search parameters, skipping",
				zap.String("zone", zone.Name))
			continue
		}
		for _, sourceName := range zone.Sources {
			processed, created := o.runUnit(ctx, zone, sourceName, rowsByName, zones)
			totals.Processed += processed
			totals.New += created
		}
	}

	metrics.Sweeps.Inc()
	o.logger.Info("sweep completed",
		zap.Int("processed", totals.Processed),
		zap.Int("new", totals.New),
	)
	return totals, nil
}

// runUnit handles one zone × source pair. All failure modes end here: the
// unit reports zero counts and the sweep moves on.
func (o *Orchestrator) runUnit(
	ctx context.Context,
	zone lead.Zone,
	sourceName string,
	rows map[string]lead.Source,
	zoneSnapshot []lead.Zone,
) (int, int) {
	logger := o.logger.With(
		zap.String("zone", zone.Name),
		zap.String("source", sourceName),
	)

	row, ok := rows[sourceName]
	if !ok || !row.Enabled {
		logger.Debug("source not enabled in registry, skipping")
		return 0, 0
	}
	adapter, ok := o.registry.Adapter(sourceName)
	if !ok {
		logger.Warn("no adapter registered for source")
		return 0, 0
	}
	target, ok := SearchURL(row, zone.SearchTitle, zone.SearchLocation)
	if !ok {
		logger.Debug("no search url for source, skipping")
		return 0, 0
	}

	postings, err := o.fetchAndParse(ctx, adapter, row, target)
	if err != nil {
		metrics.FetchFailures.WithLabelValues(sourceName).Inc()
		logger.Warn("unit fetch failed, continuing sweep", zap.Error(err))
		return 0, 0
	}
	for _, p := range postings {
		metrics.PostingsParsed.WithLabelValues(p.Source).Inc()
	}

	scored := score.Many(postings, zoneSnapshot)
	created, duplicates, _, err := o.ingest.SaveScored(ctx, scored)
	if err != nil {
		logger.Warn("unit persist failed, continuing sweep", zap.Error(err))
	}
	logger.Info("unit completed",
		zap.Int("parsed", len(postings)),
		zap.Int("new", created),
		zap.Int("duplicates", duplicates),
	)
	return len(postings), created
}

// fetchAndParse routes the unit to the right capability: ATS sources are
// fetched as board JSON over plain HTTP, aggregator boards are rendered.
// The source is known here, so registry auto-detection is bypassed.
func (o *Orchestrator) fetchAndParse(
	ctx context.Context,
	adapter source.Adapter,
	row lead.Source,
	target string,
) ([]lead.Posting, error) {
	if atsSources[row.Name] {
		data, err := o.boards.Get(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("board fetch: %w", err)
		}
		return adapter.FromAPI(data, orgFromBoardURL(target)), nil
	}

	html, err := o.renderer.Render(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return adapter.FromMarkup(html), nil
}
