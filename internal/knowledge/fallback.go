package knowledge

import (
	"strings"
)

// fallbackMaxBytes bounds a fallback chunk when no following step exists.
const fallbackMaxBytes = 2000

// fallbackTerms maps query keywords to design guide steps. Order matters:
// the first keyword found in the query wins.
var fallbackTerms = []struct {
	term string
	step string
}{
	{"pitch", "Step 1: Define the Core Concept"},
	{"concept", "Step 1: Define the Core Concept"},
	{"pillar", "Step 2: Establish Design Pillars"},
	{"mechanics", "Step 3: Outline Core Gameplay and Mechanics"},
	{"gameplay", "Step 3: Outline Core Gameplay and Mechanics"},
	{"narrative", "Step 4: Outline Narrative and World"},
	{"story", "Step 4: Outline Narrative and World"},
	{"visual", "Step 5: Define Visual Style and Audio Direction"},
	{"audio", "Step 5: Define Visual Style and Audio Direction"},
	{"technical", "Step 6: Determine Technical Requirements and Tools"},
	{"timeline", "Step 7: Outline Scope, Milestones, and Next Steps"},
	{"scope", "Step 7: Outline Scope, Milestones, and Next Steps"},
}

// SuggestedTerms lists the keywords the fallback understands.
func SuggestedTerms() []string {
	out := make([]string, len(fallbackTerms))
	for i, ft := range fallbackTerms {
		out[i] = ft.term
	}
	return out
}

// Fallback looks for a keyword in query and returns the matching guide
// step: from its title to the next "### Step" heading, else the next
// "## " heading, else at most 2000 bytes.
func Fallback(query, guide string) (string, bool) {
	q := strings.ToLower(query)
	for _, ft := range fallbackTerms {
		if !strings.Contains(q, ft.term) {
			continue
		}
		start := strings.Index(guide, ft.step)
		if start < 0 {
			continue
		}
		if next := strings.Index(guide[start+1:], "\n### Step"); next >= 0 {
			return guide[start : start+1+next], true
		}
		if next := strings.Index(guide[start+1:], "\n## "); next >= 0 {
			return guide[start : start+1+next], true
		}
		end := start + fallbackMaxBytes
		if end > len(guide) {
			end = len(guide)
		}
		return guide[start:end], true
	}
	return "", false
}
