package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/source"
	"github.com/jobradar/jobradar/internal/store/memory"
)

const indeedFixture = `
<div class="job_seen_beacon">
	<h2 class="jobTitle"><a href="/rc/clk?jk=abc123&from=serp">Platform Engineer</a></h2>
	<span data-testid="company-name">Acme</span>
	<div data-testid="text-location">Berlin</div>
	<div class="job-snippet">Run the clusters.</div>
</div>`

type fakeEnricher struct {
	id    string
	err   error
	calls int
}

func (f *fakeEnricher) Lookup(context.Context, string) (string, error) {
	f.calls++
	return f.id, f.err
}

func newService(store *memory.Store, enricher lead.Enricher) *Service {
	svc := New(source.NewRegistry(), store, store, enricher, zap.NewNop())
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	})
}

func TestIngestPersistsScoredLeads(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.PutZone(lead.Zone{
		Name:       "platform",
		GreenFlags: []string{"platform"},
		RedFlags:   []string{"Berlin"},
		Active:     true,
	})
	svc := newService(store, nil)

	stats, leads, err := svc.Ingest(context.Background(), indeedFixture, source.AutoDetect)

	require.NoError(t, err)
	assert.Equal(t, Stats{Parsed: 1, New: 1}, stats)
	require.Len(t, leads, 1)

	got := leads[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Platform Engineer", got.Posting.Title)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=abc123", got.Posting.JobURL)
	assert.Equal(t, lead.StatusNew, got.Status)
	// green "platform" in title (+25), red "Berlin" in location (-50).
	assert.Equal(t, -25, got.MatchScore)
	assert.Equal(t, time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestIngestSameDocumentTwiceReportsDuplicates(t *testing.T) {
	t.Parallel()

	store := memory.New()
	svc := newService(store, nil)

	first, _, err := svc.Ingest(context.Background(), indeedFixture, "indeed")
	require.NoError(t, err)
	assert.Equal(t, Stats{Parsed: 1, New: 1}, first)

	second, leads, err := svc.Ingest(context.Background(), indeedFixture, "indeed")
	require.NoError(t, err)
	assert.Equal(t, Stats{Parsed: 1, New: 0, Duplicates: 1}, second)
	assert.Empty(t, leads)

	all, err := store.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIngestEmptyDocumentYieldsZeroStats(t *testing.T) {
	t.Parallel()

	svc := newService(memory.New(), nil)

	stats, leads, err := svc.Ingest(context.Background(), "", source.AutoDetect)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, leads)
}

func TestIngestAttachesCompanyProfile(t *testing.T) {
	t.Parallel()

	enricher := &fakeEnricher{id: "company-42"}
	svc := newService(memory.New(), enricher)

	_, leads, err := svc.Ingest(context.Background(), indeedFixture, "indeed")

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "company-42", leads[0].CompanyID)
	assert.Equal(t, 1, enricher.calls)
}

func TestIngestEnrichmentFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	enricher := &fakeEnricher{err: errors.New("registry unavailable")}
	svc := newService(memory.New(), enricher)

	stats, leads, err := svc.Ingest(context.Background(), indeedFixture, "indeed")

	require.NoError(t, err)
	assert.Equal(t, 1, stats.New)
	require.Len(t, leads, 1)
	assert.Empty(t, leads[0].CompanyID)
}

func TestRescoreAppliesCurrentZones(t *testing.T) {
	t.Parallel()

	store := memory.New()
	svc := newService(store, nil)

	_, _, err := svc.Ingest(context.Background(), indeedFixture, "indeed")
	require.NoError(t, err)

	// No zones were active at ingestion time, so the lead starts at zero.
	before, err := store.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, 0, before[0].MatchScore)

	store.PutZone(lead.Zone{
		Name:       "platform",
		GreenFlags: []string{"platform"},
		Active:     true,
	})

	n, err := svc.Rescore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := store.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 25, after[0].MatchScore)
}
