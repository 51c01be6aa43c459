// Package postgres provides the Postgres-backed persistence gateway.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobradar/jobradar/internal/lead"
)

// Config controls the connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// db is the slice of pgxpool.Pool the store needs; pgxmock satisfies it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store implements the lead, zone, and source store contracts on Postgres.
// JobURL uniqueness rides on the unique index over job_leads(job_url):
// insert-if-absent is a single ON CONFLICT DO NOTHING statement, atomic
// across concurrent ingestion paths.
type Store struct {
	pool db
}

// New connects a Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool db) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// InsertIfAbsent implements lead.LeadStore.
func (s *Store) InsertIfAbsent(ctx context.Context, l lead.Lead) (bool, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	tag, err := s.pool.Exec(ctx, `
INSERT INTO job_leads (
	id, job_url, title, company_name, location, description, salary,
	source, match_score, status, priority, company_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (job_url) DO NOTHING`,
		l.ID,
		l.Posting.JobURL,
		l.Posting.Title,
		l.Posting.CompanyName,
		l.Posting.Location,
		l.Posting.Description,
		l.Posting.Salary,
		l.Posting.Source,
		l.MatchScore,
		string(l.Status),
		l.Priority,
		nullable(l.CompanyID),
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListLeads implements lead.LeadStore, ordered by score descending.
func (s *Store) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, job_url, title, company_name, location, description, salary,
       source, match_score, status, priority, COALESCE(company_id, ''),
       created_at, updated_at
FROM job_leads
ORDER BY match_score DESC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		var l lead.Lead
		var status string
		if err := rows.Scan(
			&l.ID, &l.Posting.JobURL, &l.Posting.Title, &l.Posting.CompanyName,
			&l.Posting.Location, &l.Posting.Description, &l.Posting.Salary,
			&l.Posting.Source, &l.MatchScore, &status, &l.Priority,
			&l.CompanyID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		l.Status = lead.Status(status)
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// UpdateScore implements lead.LeadStore.
func (s *Store) UpdateScore(ctx context.Context, id string, matchScore int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_leads SET match_score = $2, updated_at = NOW() WHERE id = $1`,
		id, matchScore,
	)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrNotFound
	}
	return nil
}

// UpdateStatus implements lead.LeadStore. The transition rules run against
// an observed current status, and the UPDATE is keyed on that same status:
// when a concurrent writer moves the row first, zero rows match and the
// call reports an invalid transition instead of racing past the check.
func (s *Store) UpdateStatus(ctx context.Context, id string, status lead.Status) error {
	rows, err := s.pool.Query(ctx, `SELECT status FROM job_leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("query status: %w", err)
	}
	var current string
	found := false
	for rows.Next() {
		if err := rows.Scan(&current); err != nil {
			rows.Close()
			return fmt.Errorf("scan status: %w", err)
		}
		found = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate status: %w", err)
	}
	if !found {
		return lead.ErrNotFound
	}
	if !lead.ValidTransition(lead.Status(current), status) {
		return lead.ErrInvalidTransition
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_leads SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		id, string(status), current,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrInvalidTransition
	}
	return nil
}

// ActiveZones implements lead.ZoneStore, in stored retrieval order.
func (s *Store) ActiveZones(ctx context.Context) ([]lead.Zone, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, name, search_title, search_location, green_flags, red_flags,
       sources, active
FROM radar_zones
WHERE active
ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	var zones []lead.Zone
	for rows.Next() {
		var z lead.Zone
		if err := rows.Scan(
			&z.ID, &z.Name, &z.SearchTitle, &z.SearchLocation,
			&z.GreenFlags, &z.RedFlags, &z.Sources, &z.Active,
		); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zones: %w", err)
	}
	return zones, nil
}

// Sources implements lead.SourceStore.
func (s *Store) Sources(ctx context.Context) ([]lead.Source, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, url, enabled, builtin FROM job_sources ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []lead.Source
	for rows.Next() {
		var src lead.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Enabled, &src.Builtin); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

// SeedBuiltins implements lead.SourceStore. Existing rows (including any
// operator edits to enabled/url) win over the seed set.
func (s *Store) SeedBuiltins(ctx context.Context, sources []lead.Source) error {
	for _, src := range sources {
		id := src.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := s.pool.Exec(ctx, `
INSERT INTO job_sources (id, name, url, enabled, builtin)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO NOTHING`,
			id, src.Name, src.URL, src.Enabled, src.Builtin,
		); err != nil {
			return fmt.Errorf("seed source %s: %w", src.Name, err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
