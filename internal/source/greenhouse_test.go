package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreenhouseFromAPI(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"jobs": [{"title": "Backend Engineer", "location": {"name": "London"}, "absolute_url": "https://x/y"}]}`)

	postings := Greenhouse{}.FromAPI(payload, "acme")

	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "acme", p.CompanyName)
	assert.Equal(t, "London", p.Location)
	assert.Equal(t, "https://x/y", p.JobURL)
	assert.Equal(t, "greenhouse", p.Source)
}

func TestGreenhouseFromAPIPrefersPayloadCompanyName(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"jobs": [{"title": "SRE", "company_name": "Acme GmbH", "absolute_url": "https://x/z"}]}`)

	postings := Greenhouse{}.FromAPI(payload, "acme")
	require.Len(t, postings, 1)
	assert.Equal(t, "Acme GmbH", postings[0].CompanyName)
}

func TestGreenhouseFromAPIStripsHTMLAndTruncates(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 100; i++ {
		long += "<p>responsibilities </p>"
	}
	payload := []byte(`{"jobs": [{"title": "SWE", "absolute_url": "https://x/a", "content": "` + long + `"}]}`)

	postings := Greenhouse{}.FromAPI(payload, "acme")
	require.Len(t, postings, 1)
	assert.NotContains(t, postings[0].Description, "<p>")
	assert.LessOrEqual(t, len(postings[0].Description), 500)
}

func TestGreenhouseFromAPIMalformed(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Greenhouse{}.FromAPI([]byte("{"), "acme"))
	assert.Empty(t, Greenhouse{}.FromAPI(nil, "acme"))
	assert.Empty(t, Greenhouse{}.FromAPI([]byte(`{"jobs": []}`), "acme"))
}

func TestGreenhouseMarkupBoard(t *testing.T) {
	t.Parallel()

	html := `
	<span class="company-name">Acme</span>
	<div class="opening">
		<a href="/acme/jobs/100?gh_src=board">Backend Engineer</a>
		<span class="location">Berlin, Germany</span>
	</div>
	<div class="opening">
		<a href="/acme/jobs/101">Frontend Engineer</a>
		<span class="location">Remote</span>
	</div>`

	postings := Greenhouse{}.FromMarkup(html)
	require.Len(t, postings, 2)
	assert.Equal(t, "Acme", postings[0].CompanyName)
	assert.Equal(t, "Berlin, Germany", postings[0].Location)
	// gh_src is tracking noise and must not survive canonicalization.
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/100", postings[0].JobURL)
}

func TestLeverFromAPI(t *testing.T) {
	t.Parallel()

	payload := []byte(`[{"text": "Platform Engineer", "hostedUrl": "https://jobs.lever.co/acme/uuid-9",
		"categories": {"location": "Amsterdam"}, "descriptionPlain": "Run the platform."}]`)

	postings := Lever{}.FromAPI(payload, "acme")

	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Platform Engineer", p.Title)
	assert.Equal(t, "acme", p.CompanyName)
	assert.Equal(t, "Amsterdam", p.Location)
	assert.Equal(t, "https://jobs.lever.co/acme/uuid-9", p.JobURL)
	assert.Equal(t, "Run the platform.", p.Description)
}

func TestWorkableFromAPIBuildsURLFromShortcode(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"results": [{"title": "QA Engineer", "shortcode": "AB12CD",
		"location": {"city": "Athens", "country": "Greece"}}]}`)

	postings := Workable{}.FromAPI(payload, "acme")

	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "QA Engineer", p.Title)
	assert.Equal(t, "Athens, Greece", p.Location)
	assert.Equal(t, "https://apply.workable.com/acme/j/AB12CD/", p.JobURL)
}
