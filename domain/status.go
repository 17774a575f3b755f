package domain

import "fmt"

// DeploymentTarget identifies where a generated project is shipped
type DeploymentTarget int

const (
	DeploymentTargetUnknown DeploymentTarget = iota
	DeploymentTargetVercel
	DeploymentTargetGitHub
	DeploymentTargetDocker
	DeploymentTargetAWS
)

func (t DeploymentTarget) String() string {
	switch t {
	case DeploymentTargetVercel:
		return "vercel"
	case DeploymentTargetGitHub:
		return "github"
	case DeploymentTargetDocker:
		return "docker"
	case DeploymentTargetAWS:
		return "aws"
	default:
		return "unknown"
	}
}

func ParseDeploymentTarget(s string) (DeploymentTarget, error) {
	switch s {
	case "vercel":
		return DeploymentTargetVercel, nil
	case "github":
		return DeploymentTargetGitHub, nil
	case "docker":
		return DeploymentTargetDocker, nil
	case "aws":
		return DeploymentTargetAWS, nil
	default:
		return DeploymentTargetUnknown, fmt.Errorf("unsupported deployment target: %q", s)
	}
}

// DeploymentTargets lists every supported target in display order
func DeploymentTargets() []DeploymentTarget {
	return []DeploymentTarget{
		DeploymentTargetVercel,
		DeploymentTargetGitHub,
		DeploymentTargetDocker,
		DeploymentTargetAWS,
	}
}

func (t DeploymentTarget) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *DeploymentTarget) UnmarshalText(text []byte) error {
	parsed, err := ParseDeploymentTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Complexity is the estimated size class of a project
type Complexity int

const (
	ComplexitySimple Complexity = iota
	ComplexityMedium
	ComplexityComplex
	ComplexityEnterprise
)

func (c Complexity) String() string {
	switch c {
	case ComplexitySimple:
		return "simple"
	case ComplexityMedium:
		return "medium"
	case ComplexityComplex:
		return "complex"
	case ComplexityEnterprise:
		return "enterprise"
	default:
		return "unknown"
	}
}

func ParseComplexity(s string) (Complexity, error) {
	switch s {
	case "simple":
		return ComplexitySimple, nil
	case "medium":
		return ComplexityMedium, nil
	case "complex":
		return ComplexityComplex, nil
	case "enterprise":
		return ComplexityEnterprise, nil
	default:
		return ComplexitySimple, fmt.Errorf("invalid complexity: %q", s)
	}
}

func (c Complexity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Complexity) UnmarshalText(text []byte) error {
	parsed, err := ParseComplexity(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FindingCategory groups scanner rules
type FindingCategory int

const (
	CategorySyntax FindingCategory = iota
	CategoryType
	CategoryLogic
	CategorySecurity
	CategoryPerformance
)

func (c FindingCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryType:
		return "type"
	case CategoryLogic:
		return "logic"
	case CategorySecurity:
		return "security"
	case CategoryPerformance:
		return "performance"
	default:
		return "unknown"
	}
}

func (c FindingCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Severity ranks a finding
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DeploymentEventType is the lifecycle stage reported to observers
type DeploymentEventType string

const (
	DeploymentEventStarted DeploymentEventType = "started"
	DeploymentEventSuccess DeploymentEventType = "success"
	DeploymentEventFailed  DeploymentEventType = "failed"
	DeploymentEventError   DeploymentEventType = "error"
)

// String implements the Stringer interface
func (e DeploymentEventType) String() string {
	return string(e)
}
