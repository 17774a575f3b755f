// Package domain provides core domain types and entities for ULTRABUILD.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectType selects a catalog entry. Unknown types fall back to ProjectTypeOther.
type ProjectType string

const (
	ProjectTypeWebsite   ProjectType = "website"
	ProjectTypeWebApp    ProjectType = "webapp"
	ProjectTypeApp       ProjectType = "app"
	ProjectTypeAPI       ProjectType = "api"
	ProjectTypeMobile    ProjectType = "mobile"
	ProjectTypeGame      ProjectType = "game"
	ProjectTypeEcommerce ProjectType = "ecommerce"
	ProjectTypeSaaS      ProjectType = "saas"
	ProjectTypeDashboard ProjectType = "dashboard"
	ProjectTypeOther     ProjectType = "other"
)

// String implements the Stringer interface
func (t ProjectType) String() string {
	return string(t)
}

// Constraints are optional hints supplied with a requirement
type Constraints struct {
	TechStack []string `json:"techStack,omitempty"`
	Budget    string   `json:"budget,omitempty"`
	Timeline  string   `json:"timeline,omitempty"`
}

// Requirement describes the project a caller wants generated
type Requirement struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        ProjectType `json:"type"`
	Features    []string    `json:"features"`
	Constraints Constraints `json:"constraints"`
}

// TechStack is the set of technologies chosen for a project
type TechStack struct {
	Frontend   []string `json:"frontend"`
	Backend    []string `json:"backend"`
	Database   []string `json:"database"`
	Deployment []string `json:"deployment"`
	Tools      []string `json:"tools"`
}

// Clone returns a deep copy so callers can never alias catalog data
func (s TechStack) Clone() TechStack {
	return TechStack{
		Frontend:   cloneStrings(s.Frontend),
		Backend:    cloneStrings(s.Backend),
		Database:   cloneStrings(s.Database),
		Deployment: cloneStrings(s.Deployment),
		Tools:      cloneStrings(s.Tools),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// DeploymentSettings is the suggested build configuration for a generated project
type DeploymentSettings struct {
	Platform     string            `json:"platform"`
	BuildCommand string            `json:"buildCommand"`
	OutputDir    string            `json:"outputDir"`
	Environment  map[string]string `json:"environment"`
}

// GeneratedProject is the immutable output of the project generator
type GeneratedProject struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Slug            string             `json:"slug"`
	Description     string             `json:"description"`
	Type            ProjectType        `json:"type"`
	Features        []string           `json:"features"`
	Constraints     Constraints        `json:"constraints"`
	Complexity      Complexity         `json:"complexity"`
	TechStack       TechStack          `json:"techStack"`
	Files           map[string]string  `json:"files"`
	Deployment      DeploymentSettings `json:"deployment"`
	Confidence      float64            `json:"confidence"`
	Recommendations []string           `json:"recommendations,omitempty"`
	CreatedAt       time.Time          `json:"timestamp"`
}

// ResearchInsight is the answer of the external research collaborator
type ResearchInsight struct {
	Complexity      string   `json:"complexity"`
	Recommendations []string `json:"recommendations"`
}
