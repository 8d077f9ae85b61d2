package classify

import "strings"

// Keywords are the static lists the three predicates match against. Empty
// lists fall back to the defaults below.
type Keywords struct {
	TargetRoles        []string
	USALocations       []string
	C2C                []string
	FullTimeExclusions []string
}

// DefaultKeywords mirrors the lists the tool ships with.
func DefaultKeywords() Keywords {
	return Keywords{
		TargetRoles: []string{
			"ai", "machine learning", "ml", "data engineer", "data scientist",
			"mlops", "software engineer", "python", "backend",
		},
		USALocations: []string{
			"United States", "USA", "US", "Remote", "New York", "San Francisco",
			"Los Angeles", "Chicago", "Boston", "Seattle", "Austin", "California",
			"Texas", "NY", "CA", "TX", "FL", "WA", "MA", "IL", "Anywhere", "Remote USA",
		},
		C2C: []string{
			"c2c", "corp to corp", "corp-to-corp", "corporation to corporation",
			"1099", "contract", "contractor", "contracting", "contractual",
			"w2 or c2c", "c2c or w2", "c2c only", "1099 contractor",
			"independent contractor", "freelance", "freelancer",
			"temporary", "temp", "project-based", "consultant", "consulting",
			"hourly", "per hour", "contract position", "contract role",
			"contract basis", "short term", "short-term", "contract hire",
			"contract assignment", "contract opportunity",
		},
		FullTimeExclusions: []string{
			"full-time employee", "w2 only", "no contractors", "employees only",
			"direct hire only",
		},
	}
}

// Secondary indicator lists for the contract-type decision order. Fixed, not
// configurable: they encode the rule ordering itself, not a preference.
var (
	contractWords = []string{"contract", "temporary", "freelance", "consultant"}
	leanWords     = []string{"remote", "project", "hourly"}

	// only these core phrases suppress the lean-indicator rule; the full
	// configured exclusion list applies one step later
	strongFullTime = []string{
		"full-time employee", "w2 only", "no contractors", "employees only",
	}
)

// Classifier owns the keyword lists and the memo tables for the two
// predicates that get hammered with repeat inputs.
type Classifier struct {
	roles    []string
	locs     []string
	c2c      []string
	fulltime []string

	roleMemo *memoTable
	locMemo  *memoTable
}

func New(kw Keywords) *Classifier {
	def := DefaultKeywords()
	if len(kw.TargetRoles) == 0 {
		kw.TargetRoles = def.TargetRoles
	}
	if len(kw.USALocations) == 0 {
		kw.USALocations = def.USALocations
	}
	if len(kw.C2C) == 0 {
		kw.C2C = def.C2C
	}
	if len(kw.FullTimeExclusions) == 0 {
		kw.FullTimeExclusions = def.FullTimeExclusions
	}
	return &Classifier{
		roles:    lowerAll(kw.TargetRoles),
		locs:     lowerAll(kw.USALocations),
		c2c:      lowerAll(kw.C2C),
		fulltime: lowerAll(kw.FullTimeExclusions),
		roleMemo: newMemoTable(1000),
		locMemo:  newMemoTable(500),
	}
}

// IsTargetRole reports whether the title mentions any target-role keyword.
// Empty titles never match.
func (c *Classifier) IsTargetRole(title string) bool {
	if title == "" {
		return false
	}
	return c.roleMemo.lookup(title, func(t string) bool {
		return containsAny(strings.ToLower(t), c.roles)
	})
}

// IsUSALocation reports whether the location mentions any USA indicator.
// Empty locations never match.
func (c *Classifier) IsUSALocation(location string) bool {
	if location == "" {
		return false
	}
	return c.locMemo.lookup(location, func(l string) bool {
		return containsAny(strings.ToLower(l), c.locs)
	})
}

// ContractType decides whether a posting looks like contract/C2C work and
// says why. The decision order is fixed; first match wins. Ambiguous
// postings pass (rule 6) — the filter deliberately favors false positives
// over missed opportunities.
func (c *Classifier) ContractType(description, employmentType, title string) (bool, string) {
	if description == "" && employmentType == "" && title == "" {
		return false, "no content to analyze"
	}

	blob := strings.ToLower(description + " " + employmentType + " " + title)

	if hits := matchAll(blob, c.c2c); len(hits) > 0 {
		return true, "c2c indicators: " + strings.Join(firstN(hits, 3), ", ")
	}

	if containsAny(blob, contractWords) {
		return true, "contract/temporary indicators"
	}

	if containsAny(blob, leanWords) && !containsAny(blob, strongFullTime) {
		return true, "likely contract (remote/project/hourly)"
	}

	if strong := matchAll(blob, c.fulltime); len(strong) > 0 {
		return false, "strong full-time indicators: " + strings.Join(firstN(strong, 2), ", ")
	}

	return true, "included by default (no strong exclusion indicators)"
}

func lowerAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.ToLower(strings.TrimSpace(x))
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

func containsAny(blob string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(blob, n) {
			return true
		}
	}
	return false
}

func matchAll(blob string, needles []string) []string {
	var hits []string
	for _, n := range needles {
		if strings.Contains(blob, n) {
			hits = append(hits, n)
		}
	}
	return hits
}

func firstN(xs []string, n int) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[:n]
}
