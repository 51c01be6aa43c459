package source

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
)

const indeedHost = "https://www.indeed.com"

// Indeed extracts postings from indeed.com search result pages.
// Markup only.
type Indeed struct{}

// Name implements Adapter.
func (Indeed) Name() string { return "indeed" }

var indeedContainerRules = []string{
	"div.job_seen_beacon",
	"div.jobsearch-SerpJobCard",
	"td.resultContent",
}

// FromMarkup implements Adapter.
func (i Indeed) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, indeedContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "jk=", i.Name(), canonicalIndeedURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			"h2.jobTitle a",
			`a[id^="job_"]`,
			`a[href*="jk="]`,
		})
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				"h2.jobTitle span[title]",
				"h2.jobTitle a",
				"a.jobtitle",
			}),
			CompanyName: firstText(card, []string{
				`span[data-testid="company-name"]`,
				"span.companyName",
				"span.company",
			}),
			Location: firstText(card, []string{
				`div[data-testid="text-location"]`,
				"div.companyLocation",
				"div.location",
			}),
			Description: firstText(card, []string{
				"div.job-snippet",
				"div.summary",
			}),
			JobURL: canonicalIndeedURL(href),
			Salary: findSalary(card.Text()),
			Source: i.Name(),
		})
	})
	return finish(postings)
}

// FromAPI implements Adapter.
func (Indeed) FromAPI(_ []byte, _ string) []lead.Posting { return nil }

// canonicalIndeedURL reduces Indeed's redirect-style links to the stable
// viewjob form keyed by the jk token. Links carrying no jk token keep their
// path with tracking parameters stripped.
func canonicalIndeedURL(raw string) string {
	abs := absoluteURL(raw, indeedHost)
	if abs == "" {
		return ""
	}
	u, err := url.Parse(abs)
	if err != nil {
		return ""
	}
	if jk := u.Query().Get("jk"); jk != "" {
		return indeedHost + "/viewjob?jk=" + jk
	}
	if strings.Contains(u.Path, "/viewjob") {
		return stripQuery(abs, "jk")
	}
	return stripQuery(abs)
}
