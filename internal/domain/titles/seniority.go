package titles

import "strings"

// Seniority labels.
const (
	VicePresident = "Vice President"
	VP            = "VP"
	Director      = "Director"
	Principal     = "Principal"
	Manager       = "Manager"
	Senior        = "Senior"
	Lead          = "Lead"
	Associate     = "Associate"
	Junior        = "Junior"

	// VPCSuite is the merged bucket for VP and Vice President.
	VPCSuite = "VP/C-Suite"
)

// seniorityRules: "senior manager" sits ahead of "senior" so it resolves to
// Manager.
var seniorityRules = []rule{
	newRule(`\bvice[ -]president\b`, VicePresident),
	newRule(`\b(s?vp|evp)\b`, VP),
	newRule(`\bdirector\b`, Director),
	newRule(`\bprincipal\b`, Principal),
	newRule(`\b(senior|sr\.?)\s+manager\b`, Manager),
	newRule(`\b(senior|sr)\b`, Senior),
	newRule(`\blead\b`, Lead),
	newRule(`\bmanager\b`, Manager),
	newRule(`\bassociate\b`, Associate),
	newRule(`\b(junior|jr)\b`, Junior),
}

// seniorityLadder orders the merged levels from most to least senior.
var seniorityLadder = []string{VPCSuite, Director, Principal, Manager, Lead, Senior, Associate, Junior}

// Seniority returns the seniority label for title. ok is false when the title
// carries no seniority signal; such titles are left out of distributions.
func Seniority(title string) (level string, ok bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}
	for _, r := range seniorityRules {
		if r.pattern.MatchString(title) {
			return r.label, true
		}
	}
	return "", false
}

// LadderLevel folds VP and Vice President into VPCSuite; other labels pass
// through unchanged.
func LadderLevel(level string) string {
	if level == VP || level == VicePresident {
		return VPCSuite
	}
	return level
}

// SeniorityLadder returns the merged levels from most to least senior.
func SeniorityLadder() []string {
	out := make([]string, len(seniorityLadder))
	copy(out, seniorityLadder)
	return out
}
