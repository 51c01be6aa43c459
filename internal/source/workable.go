package source

import (
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/normalize"
)

const workableHost = "https://apply.workable.com"

// Workable extracts postings from hosted Workable boards, from board markup
// or the public widget API.
type Workable struct{}

// Name implements Adapter.
func (Workable) Name() string { return "workable" }

var workableContainerRules = []string{
	`li[data-ui="job"]`,
	"li.whr-item",
	"div.job-item",
}

// FromMarkup implements Adapter.
func (w Workable) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, workableContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "/j/", w.Name(), canonicalWorkableURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			`a[data-ui="job-title-link"]`,
			"a.whr-title",
			"a",
		})
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				`h3[data-ui="job-title"]`,
				"h3.whr-title",
				"h3",
			}),
			Location: firstText(card, []string{
				`span[data-ui="job-location"]`,
				"li.whr-location",
				"span.location",
			}),
			JobURL: canonicalWorkableURL(href),
			Salary: findSalary(card.Text()),
			Source: w.Name(),
		})
	})
	return finish(postings)
}

// workableJob mirrors one entry of the Workable widget API payload.
type workableJob struct {
	Title       string `json:"title"`
	Shortcode   string `json:"shortcode"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Location    struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

type workableResponse struct {
	Results []workableJob `json:"results"`
}

// FromAPI implements Adapter. The payload's own URL is preferred; when
// absent one is built from the org slug and job shortcode.
func (w Workable) FromAPI(data []byte, org string) []lead.Posting {
	var resp workableResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return []lead.Posting{}
	}

	postings := make([]lead.Posting, 0, len(resp.Results))
	for _, job := range resp.Results {
		jobURL := job.URL
		if jobURL == "" && job.Shortcode != "" && org != "" {
			jobURL = fmt.Sprintf("%s/%s/j/%s/", workableHost, org, job.Shortcode)
		}
		location := normalize.CleanText(job.Location.City)
		if country := normalize.CleanText(job.Location.Country); country != "" {
			if location != "" {
				location += ", " + country
			} else {
				location = country
			}
		}
		postings = append(postings, lead.Posting{
			Title:       normalize.CleanText(job.Title),
			CompanyName: org,
			Location:    location,
			JobURL:      canonicalWorkableURL(jobURL),
			Description: normalize.StripTags(job.Description),
			Source:      w.Name(),
		})
	}
	return finish(postings)
}

func canonicalWorkableURL(raw string) string {
	abs := absoluteURL(raw, workableHost)
	if abs == "" {
		return ""
	}
	return stripQuery(abs)
}
