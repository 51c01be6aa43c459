package sweep

import (
	"net/url"
	"strings"

	"github.com/jobradar/jobradar/internal/lead"
)

// atsSources fetch JSON board APIs instead of rendered search pages. Their
// board URL comes from the source registry row (per-company boards have no
// global search endpoint).
var atsSources = map[string]bool{
	"greenhouse": true,
	"lever":      true,
	"workable":   true,
}

// SearchURL builds the fetch target for one zone × source unit. For board
// aggregators the zone's search title and location fill a fixed query
// template; for ATS sources the registry row's URL is used as-is. The second
// return value is false when no usable URL can be built.
func SearchURL(src lead.Source, searchTitle, searchLocation string) (string, bool) {
	if atsSources[src.Name] {
		if strings.TrimSpace(src.URL) == "" {
			return "", false
		}
		return src.URL, true
	}

	q := url.QueryEscape(searchTitle)
	loc := url.QueryEscape(searchLocation)
	switch src.Name {
	case "linkedin":
		return "https://www.linkedin.com/jobs/search/?keywords=" + q + "&location=" + loc, true
	case "indeed":
		return "https://www.indeed.com/jobs?q=" + q + "&l=" + loc, true
	case "glassdoor":
		return "https://www.glassdoor.com/Job/jobs.htm?sc.keyword=" + q + "&locKeyword=" + loc, true
	case "wellfound":
		return "https://wellfound.com/jobs?q=" + q + "&l=" + loc, true
	default:
		return "", false
	}
}

// orgFromBoardURL pulls the org slug out of an ATS board URL, e.g.
// boards-api.greenhouse.io/v1/boards/<org>/jobs or api.lever.co/v0/postings/<org>.
func orgFromBoardURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		switch part {
		case "boards", "postings", "accounts":
			if i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	// Hosted board roots keep the org as the first path segment.
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return ""
}
