package source

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// malformedInputs are fed to every adapter: parse functions must stay total.
var malformedInputs = []string{
	"",
	"   \n\t  ",
	"not html at all",
	"<div><span>unclosed",
	`{"jobs": "this is json, not html"}`,
	"<html><body></body></html>",
}

func TestAdaptersNeverPanicAndAlwaysReturnSlices(t *testing.T) {
	t.Parallel()

	for _, name := range NewRegistry().Names() {
		adapter, ok := NewRegistry().Adapter(name)
		require.True(t, ok)
		for i, input := range malformedInputs {
			t.Run(fmt.Sprintf("%s/markup_%d", name, i), func(t *testing.T) {
				t.Parallel()
				assert.NotNil(t, adapter.FromMarkup(input))
			})
		}
		t.Run(name+"/api_garbage", func(t *testing.T) {
			t.Parallel()
			// Markup-only adapters return nil by contract; ATS adapters must
			// return an empty slice for garbage payloads, never panic.
			_ = adapter.FromAPI([]byte("{broken"), "acme")
		})
	}
}

func TestAdapterOutputsHaveUniqueURLs(t *testing.T) {
	t.Parallel()

	// Duplicate cards collapse to one posting.
	html := `
	<div class="opening"><a href="/acme/jobs/1">Backend Engineer</a></div>
	<div class="opening"><a href="/acme/jobs/1">Backend Engineer</a></div>
	<div class="opening"><a href="/acme/jobs/2">SRE</a></div>`

	postings := Greenhouse{}.FromMarkup(html)
	require.Len(t, postings, 2)
	seen := map[string]bool{}
	for _, p := range postings {
		assert.False(t, seen[p.JobURL], "duplicate url %s", p.JobURL)
		seen[p.JobURL] = true
	}
}

func TestCanonicalizationIsIdempotent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		canon func(string) string
		raw   string
	}{
		{"linkedin", canonicalLinkedInURL, "/jobs/view/swe-at-acme-123?refId=abc&trk=guest"},
		{"indeed", canonicalIndeedURL, "/rc/clk?jk=abc123&from=serp&vjs=3"},
		{"greenhouse", canonicalGreenhouseURL, "https://acme.com/careers?gh_jid=42&gh_src=newsletter"},
		{"lever", canonicalLeverURL, "https://jobs.lever.co/acme/uuid-1?lever-origin=applied"},
		{"glassdoor", canonicalGlassdoorURL, "/job-listing/swe-acme?jl=99&pos=101&ao=4"},
		{"workable", canonicalWorkableURL, "/acme/j/ABC123/?utm_source=feed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			once := tc.canon(tc.raw)
			require.NotEmpty(t, once)
			assert.Equal(t, once, tc.canon(once))
		})
	}
}

func TestLinkedInAnchorFallback(t *testing.T) {
	t.Parallel()

	// No recognizable containers: the adapter falls back to scanning anchors
	// for the source's job-view pattern and emits minimal postings.
	html := `
	<section>
		<a href="https://www.linkedin.com/jobs/view/999?trackingId=zzz">Staff Engineer</a>
		<a href="https://www.linkedin.com/feed/">not a job</a>
	</section>`

	postings := LinkedIn{}.FromMarkup(html)
	require.Len(t, postings, 1)
	assert.Equal(t, "Staff Engineer", postings[0].Title)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/999", postings[0].JobURL)
	assert.Empty(t, postings[0].CompanyName)
	assert.Empty(t, postings[0].Location)
}

func TestIndeedCardExtraction(t *testing.T) {
	t.Parallel()

	html := `
	<div class="job_seen_beacon">
		<h2 class="jobTitle"><a href="/rc/clk?jk=deadbeef&from=serp"><span title="Go Developer">Go Developer</span></a></h2>
		<span data-testid="company-name">Acme Corp</span>
		<div data-testid="text-location">Remote</div>
		<div class="job-snippet">Build services. $120,000 - $150,000 a year.</div>
	</div>`

	postings := Indeed{}.FromMarkup(html)
	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Go Developer", p.Title)
	assert.Equal(t, "Acme Corp", p.CompanyName)
	assert.Equal(t, "Remote", p.Location)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=deadbeef", p.JobURL)
	assert.Equal(t, "$120,000 - $150,000", p.Salary)
	assert.Equal(t, "indeed", p.Source)
}

func TestTieredContainerRulesFirstWinningRuleOnly(t *testing.T) {
	t.Parallel()

	// Both a first-tier and second-tier container are present; only the
	// first tier's cards are used.
	html := `
	<div class="job_seen_beacon">
		<h2 class="jobTitle"><a href="/viewjob?jk=aaa">First Tier</a></h2>
	</div>
	<div class="jobsearch-SerpJobCard">
		<h2 class="jobTitle"><a href="/viewjob?jk=bbb">Second Tier</a></h2>
	</div>`

	postings := Indeed{}.FromMarkup(html)
	require.Len(t, postings, 1)
	assert.Equal(t, "First Tier", postings[0].Title)
}

func TestMissingFieldDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	// Card without any company selector still yields title and location.
	html := `
	<div class="job_seen_beacon">
		<h2 class="jobTitle"><a href="/viewjob?jk=ccc">Data Engineer</a></h2>
		<div data-testid="text-location">Lisbon</div>
	</div>`

	postings := Indeed{}.FromMarkup(html)
	require.Len(t, postings, 1)
	assert.Equal(t, "Data Engineer", postings[0].Title)
	assert.Empty(t, postings[0].CompanyName)
	assert.Equal(t, "Lisbon", postings[0].Location)
}
