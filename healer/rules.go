package healer

import (
	"regexp"

	"github.com/ultrabuild/ultrabuild/domain"
)

// Rule is one pattern of the scanner table
type Rule struct {
	ID       string
	Category domain.FindingCategory
	Severity domain.Severity
	Pattern  *regexp.Regexp
	Message  string
}

// categoryOrder is the order in which rule groups are evaluated
var categoryOrder = []domain.FindingCategory{
	domain.CategorySyntax,
	domain.CategoryType,
	domain.CategoryLogic,
	domain.CategorySecurity,
	domain.CategoryPerformance,
}

// DefaultRules is the built-in rule table. Type rules apply to typescript only.
var DefaultRules = []Rule{
	// syntax
	{
		ID:       "duplicate-semicolon",
		Category: domain.CategorySyntax,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`;;`),
		Message:  "Duplicate semicolon",
	},
	{
		ID:       "trailing-comma",
		Category: domain.CategorySyntax,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`,\s*[)\]]`),
		Message:  "Trailing comma before closing bracket",
	},
	{
		ID:       "const-without-initializer",
		Category: domain.CategorySyntax,
		Severity: domain.SeverityHigh,
		Pattern:  regexp.MustCompile(`\bconst\s+[A-Za-z_$][\w$]*\s*;`),
		Message:  "Const declaration without initializer",
	},

	// type
	{
		ID:       "explicit-any",
		Category: domain.CategoryType,
		Severity: domain.SeverityMedium,
		Pattern:  regexp.MustCompile(`:\s*any\b`),
		Message:  "Avoid using 'any' type",
	},
	{
		ID:       "cast-to-any",
		Category: domain.CategoryType,
		Severity: domain.SeverityMedium,
		Pattern:  regexp.MustCompile(`\bas\s+any\b`),
		Message:  "Unsafe cast to 'any'",
	},
	{
		ID:       "ts-ignore",
		Category: domain.CategoryType,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`@ts-ignore`),
		Message:  "TypeScript error suppressed with @ts-ignore",
	},

	// logic
	{
		ID:       "constant-true-condition",
		Category: domain.CategoryLogic,
		Severity: domain.SeverityMedium,
		Pattern:  regexp.MustCompile(`if\s*\(\s*true\s*\)`),
		Message:  "Condition always true",
	},
	{
		ID:       "constant-false-condition",
		Category: domain.CategoryLogic,
		Severity: domain.SeverityMedium,
		Pattern:  regexp.MustCompile(`if\s*\(\s*false\s*\)`),
		Message:  "Condition always false",
	},
	{
		ID:       "infinite-loop",
		Category: domain.CategoryLogic,
		Severity: domain.SeverityHigh,
		Pattern:  regexp.MustCompile(`while\s*\(\s*true\s*\)`),
		Message:  "Potential infinite loop",
	},
	{
		ID:       "loose-equality",
		Category: domain.CategoryLogic,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`[^=!<>]==[^=]`),
		Message:  "Use strict equality (===) instead of ==",
	},

	// security
	{
		ID:       "eval",
		Category: domain.CategorySecurity,
		Severity: domain.SeverityCritical,
		Pattern:  regexp.MustCompile(`\beval\s*\(`),
		Message:  "Use of eval() is dangerous",
	},
	{
		ID:       "inner-html",
		Category: domain.CategorySecurity,
		Severity: domain.SeverityHigh,
		Pattern:  regexp.MustCompile(`\.innerHTML\s*=`),
		Message:  "Assigning innerHTML can lead to XSS",
	},
	{
		ID:       "document-write",
		Category: domain.CategorySecurity,
		Severity: domain.SeverityHigh,
		Pattern:  regexp.MustCompile(`document\.write\s*\(`),
		Message:  "document.write can lead to XSS",
	},
	{
		ID:       "hardcoded-secret",
		Category: domain.CategorySecurity,
		Severity: domain.SeverityCritical,
		Pattern:  regexp.MustCompile(`(?i)(password|secret|api[_-]?key)\s*[:=]\s*['"][^'"]+['"]`),
		Message:  "Hardcoded credential",
	},

	// performance
	{
		ID:       "length-in-loop",
		Category: domain.CategoryPerformance,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`for\s*\([^;]*;[^;]*\.length\s*;`),
		Message:  "Array length evaluated on every iteration",
	},
	{
		ID:       "json-deep-clone",
		Category: domain.CategoryPerformance,
		Severity: domain.SeverityMedium,
		Pattern:  regexp.MustCompile(`JSON\.parse\(\s*JSON\.stringify\(`),
		Message:  "Deep clone through JSON is slow",
	},
	{
		ID:       "set-interval",
		Category: domain.CategoryPerformance,
		Severity: domain.SeverityLow,
		Pattern:  regexp.MustCompile(`\bsetInterval\s*\(`),
		Message:  "setInterval without cleanup can leak",
	},
}
