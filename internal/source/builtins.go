package source

import "github.com/jobradar/jobradar/internal/lead"

// Builtins returns the registry rows seeded at startup, one per registered
// adapter. ATS rows ship disabled with no board URL: sweeping them requires
// an operator to point the row at a concrete org board first.
func Builtins() []lead.Source {
	return []lead.Source{
		{Name: "linkedin", URL: "https://www.linkedin.com", Enabled: true, Builtin: true},
		{Name: "indeed", URL: "https://www.indeed.com", Enabled: true, Builtin: true},
		{Name: "glassdoor", URL: "https://www.glassdoor.com", Enabled: true, Builtin: true},
		{Name: "wellfound", URL: "https://wellfound.com", Enabled: true, Builtin: true},
		{Name: "greenhouse", URL: "", Enabled: false, Builtin: true},
		{Name: "lever", URL: "", Enabled: false, Builtin: true},
		{Name: "workable", URL: "", Enabled: false, Builtin: true},
	}
}
