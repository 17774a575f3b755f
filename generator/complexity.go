package generator

import (
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/domain"
)

// EstimateComplexity maps a feature count to a complexity class
func EstimateComplexity(featureCount int) domain.Complexity {
	switch {
	case featureCount <= 3:
		return domain.ComplexitySimple
	case featureCount <= 8:
		return domain.ComplexityMedium
	case featureCount <= 15:
		return domain.ComplexityComplex
	default:
		return domain.ComplexityEnterprise
	}
}

// SelectStack picks the technology stack for a project type and complexity.
// Simple projects keep one entry per layer and two tools; every other class
// gets the catalog entry unchanged.
func SelectStack(c *catalog.Catalog, projectType domain.ProjectType, complexity domain.Complexity) domain.TechStack {
	stack := c.Lookup(projectType)
	if complexity != domain.ComplexitySimple {
		return stack
	}
	return domain.TechStack{
		Frontend:   truncate(stack.Frontend, 1),
		Backend:    truncate(stack.Backend, 1),
		Database:   truncate(stack.Database, 1),
		Deployment: truncate(stack.Deployment, 1),
		Tools:      truncate(stack.Tools, 2),
	}
}

func truncate(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

// Confidence scores how complete a generated file set is, in [0, 1]
func Confidence(files map[string]string) float64 {
	score := 0.7
	if len(files) > 10 {
		score += 0.15
	}
	if _, ok := files[readmeFile]; ok {
		score += 0.05
	}
	if _, ok := files[manifestFile]; ok {
		score += 0.05
	}
	return min(score, 1.0)
}
