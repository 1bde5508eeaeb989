package mdx

import (
	"strings"
	"unicode"
)

// Report is the outcome of comparing a document with a template.
// A failed validation is a normal result, not an error.
type Report struct {
	Passed   bool     `json:"passed"`
	Required []string `json:"required"`
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
	Extra    []string `json:"extra"`
}

// RequiredCount is the number of level-2 sections in the template.
func (r Report) RequiredCount() int { return len(r.Required) }

// FoundCount is the number of level-2 sections in the document.
func (r Report) FoundCount() int { return len(r.Found) }

// MissingCount is the number of required sections without a match.
func (r Report) MissingCount() int { return len(r.Missing) }

// Validate checks the level-2 sections of doc against those of tmpl.
//
// Titles match when their normalized forms are equal or one contains the
// other. Matching is existential in both directions: one found section can
// satisfy several required ones. Short titles therefore match loosely
// ("Core Concept" is satisfied by "Core Concept Refinement Notes").
func Validate(doc, tmpl Document) Report {
	report := Report{
		Required: orEmpty(List(tmpl)),
		Found:    orEmpty(List(doc)),
		Missing:  []string{},
		Extra:    []string{},
	}

	req := normalizeAll(report.Required)
	found := normalizeAll(report.Found)

	for i, r := range req {
		if !anyMatch(r, found) {
			report.Missing = append(report.Missing, report.Required[i])
		}
	}
	for i, f := range found {
		if !anyMatch(f, req) {
			report.Extra = append(report.Extra, report.Found[i])
		}
	}

	report.Passed = len(report.Missing) == 0 && len(report.Extra) == 0
	return report
}

// orEmpty keeps JSON reports stable: empty lists encode as [] not null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// normalizeTitle keeps ASCII letters, digits and whitespace, lower-cases
// and trims the result.
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func normalizeAll(titles []string) []string {
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = normalizeTitle(t)
	}
	return out
}

// titlesMatch compares two normalized titles. Containment only counts for
// non-empty strings.
func titlesMatch(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func anyMatch(title string, candidates []string) bool {
	for _, c := range candidates {
		if titlesMatch(title, c) {
			return true
		}
	}
	return false
}
