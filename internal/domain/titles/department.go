// Package titles infers coarse department and seniority labels from free-text
// job titles. Both classifiers are ordered first-match rule lists; rule order
// decides precedence between overlapping matches and must not be changed
// casually.
package titles

import (
	"regexp"
	"strings"
)

// OtherDepartment is returned when no department rule matches.
const OtherDepartment = "Other"

type rule struct {
	pattern *regexp.Regexp
	label   string
}

func newRule(expr, label string) rule {
	return rule{pattern: regexp.MustCompile(`(?i)` + expr), label: label}
}

// departmentRules are evaluated top to bottom.
var departmentRules = []rule{
	newRule(`\b(engineer(ing)?|developer|software|devops|sre|architect|programmer|qa|frontend|backend|full[ -]?stack)\b`, "Engineering"),
	newRule(`\b(data|analyst|analytics|scientist|machine learning|ml|bi)\b`, "Data & Analytics"),
	newRule(`\bproduct\b`, "Product"),
	newRule(`\b(design(er)?|ux|ui|creative)\b`, "Design"),
	newRule(`\b(marketing|brand|content|communications|growth|seo)\b`, "Marketing"),
	newRule(`\b(sales|account (executive|manager)|business development|bdr|sdr)\b`, "Sales"),
	newRule(`\b(customer|support|success|client|service desk)\b`, "Customer Success"),
	newRule(`\b(hr|human resources|people|talent|recruit(er|ing)?)\b`, "People"),
	newRule(`\b(finance|financial|accounting|accountant|controller|payroll|treasury)\b`, "Finance"),
	newRule(`\b(legal|counsel|compliance|attorney|paralegal)\b`, "Legal"),
	newRule(`\b(operations|ops|logistics|supply chain|facilities|procurement)\b`, "Operations"),
	// "IT" only in capitals so the word "it" in free text does not match.
	newRule(`\b((?-i:IT)|information technology|security|network|helpdesk|systems? admin(istrator)?)\b`, "IT"),
	newRule(`\b(chief|ceo|cto|cfo|coo|cio|president|executive|founder)\b`, "Executive"),
}

// Department returns the department label for title, or OtherDepartment.
func Department(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return OtherDepartment
	}
	for _, r := range departmentRules {
		if r.pattern.MatchString(title) {
			return r.label
		}
	}
	return OtherDepartment
}

// Departments lists every label Department can return, in rule order with
// OtherDepartment last.
func Departments() []string {
	out := make([]string, 0, len(departmentRules)+1)
	for _, r := range departmentRules {
		out = append(out, r.label)
	}
	return append(out, OtherDepartment)
}
