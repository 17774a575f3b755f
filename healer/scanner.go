package healer

import (
	"strings"

	"github.com/ultrabuild/ultrabuild/domain"
)

// Scanner matches code against an ordered rule table
type Scanner struct {
	groups map[domain.FindingCategory][]Rule
}

// NewScanner groups rules by category, preserving table order within a group
func NewScanner(rules []Rule) *Scanner {
	s := &Scanner{groups: make(map[domain.FindingCategory][]Rule)}
	for _, r := range rules {
		s.groups[r.Category] = append(s.groups[r.Category], r)
	}
	return s
}

// Scan returns one finding per matching rule, in category order
func (s *Scanner) Scan(code, language string) []domain.Finding {
	findings := []domain.Finding{}
	for _, category := range categoryOrder {
		if category == domain.CategoryType && !isTypeScript(language) {
			continue
		}
		for _, rule := range s.groups[category] {
			match := rule.Pattern.FindString(code)
			if match == "" && !rule.Pattern.MatchString(code) {
				continue
			}
			findings = append(findings, domain.Finding{
				RuleID:   rule.ID,
				Category: rule.Category,
				Severity: rule.Severity,
				Match:    match,
				Message:  rule.Message,
			})
		}
	}
	return findings
}

func isTypeScript(language string) bool {
	return strings.EqualFold(strings.TrimSpace(language), "typescript")
}
