// Package catalog holds the static project-type to technology-stack table.
package catalog

import (
	"slices"

	"github.com/ultrabuild/ultrabuild/domain"
)

// Catalog maps project types to their default technology stacks.
// It is read-only after construction.
type Catalog struct {
	entries map[domain.ProjectType]domain.TechStack
}

// New returns the built-in catalog
func New() *Catalog {
	return &Catalog{entries: defaultEntries()}
}

// NewWithEntries builds a catalog from custom entries. An "other" entry is required for fallback.
func NewWithEntries(entries map[domain.ProjectType]domain.TechStack) *Catalog {
	c := &Catalog{entries: make(map[domain.ProjectType]domain.TechStack, len(entries))}
	for t, stack := range entries {
		c.entries[t] = stack.Clone()
	}
	if _, ok := c.entries[domain.ProjectTypeOther]; !ok {
		c.entries[domain.ProjectTypeOther] = defaultEntries()[domain.ProjectTypeOther]
	}
	return c
}

// Lookup returns a copy of the stack for t, falling back to "other" for unknown types
func (c *Catalog) Lookup(t domain.ProjectType) domain.TechStack {
	if stack, ok := c.entries[t]; ok {
		return stack.Clone()
	}
	return c.entries[domain.ProjectTypeOther].Clone()
}

// Has reports whether t has its own entry
func (c *Catalog) Has(t domain.ProjectType) bool {
	_, ok := c.entries[t]
	return ok
}

// Types returns the known project types, sorted
func (c *Catalog) Types() []domain.ProjectType {
	types := make([]domain.ProjectType, 0, len(c.entries))
	for t := range c.entries {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func defaultEntries() map[domain.ProjectType]domain.TechStack {
	webApp := domain.TechStack{
		Frontend:   []string{"React", "Next.js", "Tailwind CSS"},
		Backend:    []string{"Node.js", "Express", "tRPC"},
		Database:   []string{"PostgreSQL", "Redis"},
		Deployment: []string{"Vercel", "Docker", "AWS"},
		Tools:      []string{"TypeScript", "ESLint", "Prettier", "Vitest"},
	}

	return map[domain.ProjectType]domain.TechStack{
		domain.ProjectTypeWebsite: {
			Frontend:   []string{"Next.js", "React", "Tailwind CSS"},
			Backend:    []string{"Next.js API Routes"},
			Database:   []string{"PostgreSQL"},
			Deployment: []string{"Vercel", "Netlify"},
			Tools:      []string{"TypeScript", "ESLint", "Prettier"},
		},
		domain.ProjectTypeWebApp: webApp,
		domain.ProjectTypeApp:    webApp,
		domain.ProjectTypeAPI: {
			Frontend:   []string{},
			Backend:    []string{"Node.js", "Fastify", "Express"},
			Database:   []string{"PostgreSQL", "MongoDB", "Redis"},
			Deployment: []string{"Docker", "AWS", "Railway"},
			Tools:      []string{"TypeScript", "OpenAPI", "Jest", "ESLint"},
		},
		domain.ProjectTypeMobile: {
			Frontend:   []string{"React Native", "Expo"},
			Backend:    []string{"Node.js", "Firebase"},
			Database:   []string{"Firestore", "SQLite"},
			Deployment: []string{"Expo EAS", "App Store", "Google Play"},
			Tools:      []string{"TypeScript", "Jest", "Detox"},
		},
		domain.ProjectTypeGame: {
			Frontend:   []string{"Phaser", "Three.js", "PixiJS"},
			Backend:    []string{"Node.js", "Socket.IO"},
			Database:   []string{"Redis", "MongoDB"},
			Deployment: []string{"Vercel", "itch.io", "Docker"},
			Tools:      []string{"TypeScript", "Vite", "Tiled"},
		},
		domain.ProjectTypeEcommerce: {
			Frontend:   []string{"Next.js", "React", "Tailwind CSS"},
			Backend:    []string{"Node.js", "Stripe", "Medusa"},
			Database:   []string{"PostgreSQL", "Redis", "Elasticsearch"},
			Deployment: []string{"Vercel", "AWS", "Docker"},
			Tools:      []string{"TypeScript", "Playwright", "ESLint", "Sentry"},
		},
		domain.ProjectTypeSaaS: {
			Frontend:   []string{"Next.js", "React", "shadcn/ui"},
			Backend:    []string{"Node.js", "NestJS", "Stripe", "Auth.js"},
			Database:   []string{"PostgreSQL", "Redis"},
			Deployment: []string{"Vercel", "AWS", "Docker", "Kubernetes"},
			Tools:      []string{"TypeScript", "Turborepo", "Playwright", "Sentry", "Prisma"},
		},
		domain.ProjectTypeDashboard: {
			Frontend:   []string{"React", "Recharts", "Tailwind CSS"},
			Backend:    []string{"Node.js", "Express"},
			Database:   []string{"PostgreSQL", "ClickHouse"},
			Deployment: []string{"Vercel", "Docker"},
			Tools:      []string{"TypeScript", "Vite", "Vitest"},
		},
		domain.ProjectTypeOther: {
			Frontend:   []string{"React"},
			Backend:    []string{"Node.js", "Express"},
			Database:   []string{"PostgreSQL"},
			Deployment: []string{"Vercel", "Docker"},
			Tools:      []string{"TypeScript", "ESLint"},
		},
	}
}
