package source

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
)

const glassdoorHost = "https://www.glassdoor.com"

// Glassdoor extracts postings from glassdoor.com job listing pages.
// Markup only.
type Glassdoor struct{}

// Name implements Adapter.
func (Glassdoor) Name() string { return "glassdoor" }

var glassdoorContainerRules = []string{
	`li[data-test="jobListing"]`,
	"li.react-job-listing",
	"div.jobCard",
}

// FromMarkup implements Adapter.
func (g Glassdoor) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, glassdoorContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "/job-listing/", g.Name(), canonicalGlassdoorURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			`a[data-test="job-link"]`,
			"a.jobLink",
			`a[href*="/job-listing/"]`,
		})
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				`a[data-test="job-title"]`,
				"a.jobLink span",
				"a.jobLink",
			}),
			CompanyName: firstText(card, []string{
				`span[data-test="employer-name"]`,
				"div.employerName",
				"div.jobHeader a",
			}),
			Location: firstText(card, []string{
				`div[data-test="emp-location"]`,
				"div.location",
				"span.loc",
			}),
			Description: firstText(card, []string{
				`div[data-test="descSnippet"]`,
				"div.jobDescriptionContent",
			}),
			JobURL: canonicalGlassdoorURL(href),
			Salary: findSalary(card.Text()),
			Source: g.Name(),
		})
	})
	return finish(postings)
}

// FromAPI implements Adapter.
func (Glassdoor) FromAPI(_ []byte, _ string) []lead.Posting { return nil }

// canonicalGlassdoorURL keeps the listing path and sheds Glassdoor's long
// tail of tracking parameters.
func canonicalGlassdoorURL(raw string) string {
	abs := absoluteURL(raw, glassdoorHost)
	if abs == "" {
		return ""
	}
	return stripQuery(abs, "jl")
}
