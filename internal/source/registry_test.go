package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKnownSources(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	cases := []struct {
		name string
		html string
		want string
	}{
		{"linkedin domain", `<a href="https://www.linkedin.com/jobs/view/123">x</a>`, "linkedin"},
		{"indeed class", `<div class="job_seen_beacon"></div>`, "indeed"},
		{"greenhouse domain", `<a href="https://boards.greenhouse.io/acme/jobs/1">x</a>`, "greenhouse"},
		{"lever domain", `<a href="https://jobs.lever.co/acme/1">x</a>`, "lever"},
		{"workable class", `<li class="whr-item"></li>`, "workable"},
		{"no markers", `<html><body><p>hello</p></body></html>`, AutoDetect},
		{"empty", ``, AutoDetect},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, r.Detect(tc.html))
		})
	}
}

func TestDetectPrecedence(t *testing.T) {
	t.Parallel()

	// A mirrored page carrying both Indeed and Greenhouse markers resolves
	// to Indeed: earlier in the fixed precedence order.
	html := `<div class="job_seen_beacon"></div>` +
		`<a href="https://boards.greenhouse.io/acme/jobs/1">also here</a>`

	r := NewRegistry()
	assert.Equal(t, "indeed", r.Detect(html))
}

func TestDispatchKnownHintBypassesDetection(t *testing.T) {
	t.Parallel()

	// Document sniffs as linkedin, but the caller knows better.
	html := `<p>linkedin.com</p>
		<div class="opening"><a href="/acme/jobs/42">Backend Engineer</a>
		<span class="location">Berlin</span></div>`

	r := NewRegistry()
	postings, resolved := r.Dispatch(html, "greenhouse")

	assert.Equal(t, "greenhouse", resolved)
	require.Len(t, postings, 1)
	assert.Equal(t, "Backend Engineer", postings[0].Title)
}

func TestDispatchAutoFallsBackToTrialOrder(t *testing.T) {
	t.Parallel()

	// No source marker at all, but Greenhouse's container rule matches, so
	// the ordered trial lands on it.
	html := `<div class="opening"><a href="/x/openings/7">Platform Engineer</a></div>`

	r := NewRegistry()
	postings, resolved := r.Dispatch(html, AutoDetect)

	assert.Equal(t, "greenhouse", resolved)
	require.Len(t, postings, 1)
	assert.Equal(t, "Platform Engineer", postings[0].Title)
}

func TestDispatchAllAdaptersEmpty(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	postings, resolved := r.Dispatch("<p>nothing to see</p>", AutoDetect)

	assert.Equal(t, AutoDetect, resolved)
	assert.Empty(t, postings)
}

func TestRegistryNamesOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Equal(t, []string{
		"linkedin", "indeed", "glassdoor", "wellfound",
		"greenhouse", "lever", "workable",
	}, r.Names())
}
