package source

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/normalize"
)

const leverHost = "https://jobs.lever.co"

// Lever extracts postings from hosted Lever boards, from board markup or
// the public postings API.
type Lever struct{}

// Name implements Adapter.
func (Lever) Name() string { return "lever" }

var leverContainerRules = []string{
	"div.posting",
	"div.postings-group div.posting",
}

// FromMarkup implements Adapter.
func (l Lever) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, leverContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "jobs.lever.co/", l.Name(), canonicalLeverURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			"a.posting-title",
			`a[href*="jobs.lever.co"]`,
		})
		url := canonicalLeverURL(href)
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				`h5[data-qa="posting-name"]`,
				"h5",
			}),
			CompanyName: leverOrgFromURL(url),
			Location: firstText(card, []string{
				"span.sort-by-location",
				"span.location",
				"div.posting-categories span",
			}),
			JobURL: url,
			Salary: findSalary(card.Text()),
			Source: l.Name(),
		})
	})
	return finish(postings)
}

// leverPosting mirrors one entry of the Lever postings API payload.
type leverPosting struct {
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location string `json:"location"`
	} `json:"categories"`
}

// FromAPI implements Adapter. Lever's API payload is a bare array; hostedUrl
// is preferred as the canonical link.
func (l Lever) FromAPI(data []byte, org string) []lead.Posting {
	var resp []leverPosting
	if err := json.Unmarshal(data, &resp); err != nil {
		return []lead.Posting{}
	}

	postings := make([]lead.Posting, 0, len(resp))
	for _, p := range resp {
		postings = append(postings, lead.Posting{
			Title:       normalize.CleanText(p.Text),
			CompanyName: org,
			Location:    normalize.CleanText(p.Categories.Location),
			JobURL:      canonicalLeverURL(p.HostedURL),
			Description: normalize.StripTags(p.DescriptionPlain),
			Source:      l.Name(),
		})
	}
	return finish(postings)
}

func canonicalLeverURL(raw string) string {
	abs := absoluteURL(raw, leverHost)
	if abs == "" {
		return ""
	}
	return stripQuery(abs)
}

// leverOrgFromURL extracts the org slug from a hosted board URL
// (jobs.lever.co/<org>/<posting-id>).
func leverOrgFromURL(u string) string {
	rest, ok := strings.CutPrefix(u, leverHost+"/")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}
	return rest
}
