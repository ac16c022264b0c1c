// Package filter implements the keyword policy applied to extracted links.
//
// A Policy has two stages, Include and Exclude. Each stage is either
// unconstrained or a set of keywords matched as case-insensitive substrings
// of the link's literal text.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage is one keyword stage of a Policy.
//
// The zero value is Unconstrained. A Stage built with Keywords() with no
// arguments is a keyword set that happens to be empty; it behaves like
// Unconstrained and IsUnconstrained reports true for it.
type Stage struct {
	keywords []string
	lowered  []string
	set      bool
}

// Unconstrained returns a stage that lets every link through.
func Unconstrained() Stage {
	return Stage{}
}

// Keywords returns a stage constrained to the given keywords.
// Keywords are stored as given and compared in lower case.
// An empty string is a valid keyword and matches every link.
func Keywords(keywords ...string) Stage {
	s := Stage{
		keywords: make([]string, len(keywords)),
		lowered:  make([]string, len(keywords)),
		set:      true,
	}
	copy(s.keywords, keywords)
	for i, k := range keywords {
		s.lowered[i] = lower(k)
	}
	return s
}

// ParseKeywords parses a comma-separated keyword list. Segments are trimmed
// and empty segments dropped. Input with no remaining segments yields
// Unconstrained.
func ParseKeywords(raw string) Stage {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return Unconstrained()
	}
	return Keywords(out...)
}

// FromList builds a stage from a configuration list, trimming entries and
// dropping empty ones. A nil or all-blank list yields Unconstrained.
func FromList(list []string) Stage {
	return ParseKeywords(strings.Join(list, ","))
}

// IsUnconstrained reports whether the stage places no constraint on links.
func (s Stage) IsUnconstrained() bool {
	return !s.set || len(s.keywords) == 0
}

// List returns a copy of the stage's keywords in their original case.
func (s Stage) List() []string {
	if s.IsUnconstrained() {
		return nil
	}
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}

// String renders the stage for logs and reports.
func (s Stage) String() string {
	if s.IsUnconstrained() {
		return "none"
	}
	return strings.Join(s.keywords, ",")
}

// matches reports whether any keyword occurs in the already lowered link.
func (s Stage) matches(lowerLink string) bool {
	for _, k := range s.lowered {
		if strings.Contains(lowerLink, k) {
			return true
		}
	}
	return false
}

// Policy is the include/exclude keyword policy for a run.
type Policy struct {
	Include Stage
	Exclude Stage
}

// Allow reports whether link passes the policy. A constrained include stage
// requires at least one keyword to match; a constrained exclude stage,
// evaluated only on links that passed include, requires that none match.
func (p Policy) Allow(link string) bool {
	if p.Include.IsUnconstrained() && p.Exclude.IsUnconstrained() {
		return true
	}

	lowered := lower(link)
	if !p.Include.IsUnconstrained() && !p.Include.matches(lowered) {
		return false
	}
	if !p.Exclude.IsUnconstrained() && p.Exclude.matches(lowered) {
		return false
	}
	return true
}

// String renders the policy for logs.
func (p Policy) String() string {
	return "include=" + p.Include.String() + " exclude=" + p.Exclude.String()
}

// lower returns s in lower case. A new Caser is created per call
// because Casers keep state and must not be shared between goroutines.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
