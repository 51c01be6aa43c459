package source

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/normalize"
)

const greenhouseHost = "https://boards.greenhouse.io"

// Greenhouse extracts postings from hosted Greenhouse boards, either from
// the board markup or from the public boards API.
type Greenhouse struct{}

// Name implements Adapter.
func (Greenhouse) Name() string { return "greenhouse" }

var greenhouseContainerRules = []string{
	"div.opening",
	"tr.job-post",
	"div.job-posts--table--row",
}

// FromMarkup implements Adapter.
func (g Greenhouse) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	// Hosted boards carry the company name in the page header, outside the
	// per-posting containers.
	company := firstText(doc.Selection, []string{
		"span.company-name",
		"h1.heading",
	})

	containers := selectContainers(doc, greenhouseContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "gh_jid=", g.Name(), canonicalGreenhouseURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, row *goquery.Selection) {
		href := firstHref(row, []string{
			"a",
		})
		postings = append(postings, lead.Posting{
			Title: firstText(row, []string{
				"a p.body--medium",
				"a",
			}),
			CompanyName: company,
			Location: firstText(row, []string{
				"span.location",
				"p.body--metadata",
			}),
			JobURL: canonicalGreenhouseURL(href),
			Salary: findSalary(row.Text()),
			Source: g.Name(),
		})
	})
	return finish(postings)
}

// greenhouseJob mirrors one entry of the boards API jobs payload.
type greenhouseJob struct {
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"`
	CompanyName string `json:"company_name"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// FromAPI implements Adapter. The org slug fills in the company name when
// the payload does not carry one; the API's absolute_url is preferred over
// any constructed URL.
func (g Greenhouse) FromAPI(data []byte, org string) []lead.Posting {
	var resp greenhouseResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return []lead.Posting{}
	}

	postings := make([]lead.Posting, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		company := normalize.CleanText(job.CompanyName)
		if company == "" {
			company = org
		}
		postings = append(postings, lead.Posting{
			Title:       normalize.CleanText(job.Title),
			CompanyName: company,
			Location:    normalize.CleanText(job.Location.Name),
			JobURL:      canonicalGreenhouseURL(job.AbsoluteURL),
			Description: normalize.StripTags(job.Content),
			Source:      g.Name(),
		})
	}
	return finish(postings)
}

// canonicalGreenhouseURL keeps the gh_jid token (the identifying parameter
// on company-site embeds) and drops tracking parameters such as gh_src.
func canonicalGreenhouseURL(raw string) string {
	abs := absoluteURL(raw, greenhouseHost)
	if abs == "" {
		return ""
	}
	return stripQuery(abs, "gh_jid")
}
