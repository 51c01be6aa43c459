package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/source"
	"github.com/jobradar/jobradar/internal/store/memory"
	"github.com/jobradar/jobradar/internal/sweep"
)

const greenhouseBoard = `
<div class="opening">
	<a href="https://boards.greenhouse.io/acme/jobs/42?gh_jid=42&gh_src=newsletter">Backend Engineer</a>
	<span class="location">London</span>
</div>
<span class="company-name">Acme</span>`

const linkedinBoard = `
<div class="base-card">
	<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/101?trk=x"></a>
	<h3 class="base-search-card__title">Go Engineer</h3>
	<h4 class="base-search-card__subtitle"><a>Acme</a></h4>
	<span class="job-search-card__location">Remote</span>
</div>`

type staticRenderer struct{ html string }

func (r staticRenderer) Render(context.Context, string) (string, error) { return r.html, nil }
func (staticRenderer) Close()                                           {}

type staticBoards struct{ data []byte }

func (b staticBoards) Get(context.Context, string) ([]byte, error) { return b.data, nil }

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	registry := source.NewRegistry()
	svc := ingest.New(registry, store, store, nil, zap.NewNop())
	sweeper := sweep.New(
		store, store, registry,
		staticRenderer{html: linkedinBoard},
		staticBoards{data: []byte(`{"jobs": []}`)},
		svc, zap.NewNop(),
	)
	return NewServer(svc, sweeper, store, zap.NewNop()), store
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIngestDocument(t *testing.T) {
	s, store := newTestServer(t)
	store.PutZone(lead.Zone{Name: "backend", GreenFlags: []string{"backend"}, Active: true})

	body, err := json.Marshal(map[string]string{"rawHtml": greenhouseBoard, "source": "auto"})
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodPost, "/v1/ingest", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, ingest.Stats{Parsed: 1, New: 1}, resp.Stats)
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "Backend Engineer", resp.Leads[0].Posting.Title)
	assert.Equal(t, 25, resp.Leads[0].MatchScore)
}

func TestIngestEmptyDocumentSucceeds(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/v1/ingest", `{"rawHtml": "", "source": "auto"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, ingest.Stats{}, resp.Stats)
	assert.Empty(t, resp.Leads)
}

func TestIngestInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/v1/ingest", `{"rawHtml": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSweepEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	store.PutSource(lead.Source{Name: "linkedin", URL: "https://www.linkedin.com", Enabled: true, Builtin: true})
	store.PutZone(lead.Zone{
		Name:        "backend",
		SearchTitle: "golang",
		Sources:     []string{"linkedin"},
		Active:      true,
	})

	rec := doRequest(t, s, http.MethodPost, "/v1/sweep", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var totals sweep.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, sweep.Totals{Processed: 1, New: 1}, totals)
}

func TestListLeadsSortedByScore(t *testing.T) {
	s, store := newTestServer(t)
	seedLead(t, store, "https://a.example/1", 10)
	seedLead(t, store, "https://a.example/2", 40)

	rec := doRequest(t, s, http.MethodGet, "/v1/leads", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Leads []lead.Lead `json:"leads"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Leads, 2)
	assert.Equal(t, 40, resp.Leads[0].MatchScore)
	assert.Equal(t, 10, resp.Leads[1].MatchScore)
}

func TestRescoreEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedLead(t, store, "https://a.example/1", 0)

	rec := doRequest(t, s, http.MethodPost, "/v1/rescore", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["rescored"])
}

func TestUpdateLeadStatus(t *testing.T) {
	s, store := newTestServer(t)
	id := seedLead(t, store, "https://a.example/1", 0)

	rec := doRequest(t, s, http.MethodPost, "/v1/leads/"+id+"/status", `{"status": "reviewing"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Moving backwards is rejected.
	rec = doRequest(t, s, http.MethodPost, "/v1/leads/"+id+"/status", `{"status": "new"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/v1/leads/missing/status", `{"status": "reviewing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/v1/leads/"+id+"/status", `{"status": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedLead(t *testing.T, store *memory.Store, jobURL string, matchScore int) string {
	t.Helper()
	l := lead.Lead{
		ID:         jobURL,
		Posting:    lead.Posting{Title: "Engineer", JobURL: jobURL, Source: "linkedin"},
		MatchScore: matchScore,
		Status:     lead.StatusNew,
	}
	inserted, err := store.InsertIfAbsent(context.Background(), l)
	require.NoError(t, err)
	require.True(t, inserted)
	return l.ID
}
