package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobradar/jobradar/internal/lead"
)

const linkedinHost = "https://www.linkedin.com"

var linkedinJobPath = regexp.MustCompile(`(/jobs/view/[^/?#]+)`)

// LinkedIn extracts postings from linkedin.com job search result pages.
// Markup only — LinkedIn exposes no public postings API.
type LinkedIn struct{}

// Name implements Adapter.
func (LinkedIn) Name() string { return "linkedin" }

var linkedinContainerRules = []string{
	"div.base-card",
	"li.jobs-search-results__list-item",
	"div.job-search-card",
}

// FromMarkup implements Adapter.
func (l LinkedIn) FromMarkup(html string) []lead.Posting {
	doc := loadDoc(html)
	if doc == nil {
		return []lead.Posting{}
	}

	containers := selectContainers(doc, linkedinContainerRules)
	if containers == nil {
		return finish(anchorFallback(doc, "/jobs/view/", l.Name(), canonicalLinkedInURL))
	}

	var postings []lead.Posting
	containers.Each(func(_ int, card *goquery.Selection) {
		href := firstHref(card, []string{
			"a.base-card__full-link",
			`a[href*="/jobs/view/"]`,
		})
		postings = append(postings, lead.Posting{
			Title: firstText(card, []string{
				"h3.base-search-card__title",
				"a.job-card-list__title",
				"h3",
			}),
			CompanyName: firstText(card, []string{
				"h4.base-search-card__subtitle a",
				"h4.base-search-card__subtitle",
				"a.hidden-nested-link",
			}),
			Location: firstText(card, []string{
				"span.job-search-card__location",
				"li.job-card-container__metadata-item",
			}),
			JobURL: canonicalLinkedInURL(href),
			Salary: findSalary(card.Text()),
			Source: l.Name(),
		})
	})
	return finish(postings)
}

// FromAPI implements Adapter.
func (LinkedIn) FromAPI(_ []byte, _ string) []lead.Posting { return nil }

// canonicalLinkedInURL keeps the /jobs/view/<id> path, sheds tracking query
// parameters, and promotes relative hrefs onto the linkedin.com host.
func canonicalLinkedInURL(raw string) string {
	abs := absoluteURL(raw, linkedinHost)
	if abs == "" {
		return ""
	}
	if m := linkedinJobPath.FindString(abs); m != "" {
		return linkedinHost + strings.TrimSuffix(m, "/")
	}
	return stripQuery(abs)
}
