package source

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
)

const wellfoundHost = "https://wellfound.com"

// Wellfound extracts postings from wellfound.com (formerly AngelList Talent)
// startup job pages. Markup only.
type Wellfound struct{}

// Name implements Adapter.
func (Wellfound) Name() string { return "wellfound" }

var wellfoundContainerRules = []string{
	`div[data-test="StartupResult"]`,
	`div[data-test="JobSearchResult"]`,
	"div.job-listing",
}

// FromMarkup implements Adapter.
func (w Wellfound) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, wellfoundContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "/jobs/", w.Name(), canonicalWellfoundURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			`a[data-test="job-title-link"]`,
			`a[href*="/jobs/"]`,
		})
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				`a[data-test="job-title-link"]`,
				"div.job-title",
				"h4",
			}),
			CompanyName: firstText(card, []string{
				`h2[data-test="startup-header-name"]`,
				"a.startup-link",
				"h2",
			}),
			Location: firstText(card, []string{
				`span[data-test="job-location"]`,
				"div.location",
				"span.location",
			}),
			Description: firstText(card, []string{
				`div[data-test="job-description"]`,
				"div.mission",
			}),
			JobURL: canonicalWellfoundURL(href),
			Salary: findSalary(card.Text()),
			Source: w.Name(),
		})
	})
	return finish(postings)
}

// FromAPI implements Adapter.
func (Wellfound) FromAPI(_ []byte, _ string) []lead.Posting { return nil }

func canonicalWellfoundURL(raw string) string {
	abs := absoluteURL(raw, wellfoundHost)
	if abs == "" {
		return ""
	}
	return stripQuery(abs)
}
