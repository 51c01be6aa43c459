package lead

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a lead status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// LeadStore persists leads with at-most-one-record-per-URL semantics.
type LeadStore interface {
	// InsertIfAbsent atomically creates the lead unless one with the same
	// JobURL already exists. It reports whether a row was created.
	InsertIfAbsent(ctx context.Context, l Lead) (bool, error)
	ListLeads(ctx context.Context) ([]Lead, error)
	UpdateScore(ctx context.Context, id string, score int) error
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// ZoneStore reads radar zone configurations.
type ZoneStore interface {
	ActiveZones(ctx context.Context) ([]Zone, error)
}

// SourceStore reads and seeds the source registry.
type SourceStore interface {
	Sources(ctx context.Context) ([]Source, error)
	SeedBuiltins(ctx context.Context, sources []Source) error
}

// Renderer fetches a URL through a real browser and returns the rendered DOM.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close()
}

// BoardClient fetches a board API endpoint over plain HTTP.
type BoardClient interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Enricher resolves a company name to a company profile id. Implementations
// must degrade to a no-op when the upstream registry is unavailable.
type Enricher interface {
	Lookup(ctx context.Context, companyName string) (string, error)
}
