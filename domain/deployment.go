package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DeploymentConfig is the input of a single deployment call
type DeploymentConfig struct {
	ProjectName string
	Target      DeploymentTarget
	Files       map[string]string
}

// DeploymentResult is returned by every deployment call and stored as its record
type DeploymentResult struct {
	ID           uuid.UUID        `json:"id"`
	ProjectName  string           `json:"projectName"`
	Target       DeploymentTarget `json:"target"`
	Success      bool             `json:"success"`
	URL          string           `json:"url,omitempty"`
	DeploymentID string           `json:"deploymentId,omitempty"`
	Logs         string           `json:"logs"`
	Timestamp    time.Time        `json:"timestamp"`
	Duration     time.Duration    `json:"duration"`
}

// MarshalJSON reports the duration in milliseconds
func (r DeploymentResult) MarshalJSON() ([]byte, error) {
	type alias DeploymentResult
	return json.Marshal(struct {
		alias
		Duration int64 `json:"duration"`
	}{alias(r), r.Duration.Milliseconds()})
}

// DeploymentEvent is delivered to observers while a deployment runs
type DeploymentEvent struct {
	Type         DeploymentEventType `json:"type"`
	DeploymentID uuid.UUID           `json:"deploymentId"`
	Target       DeploymentTarget    `json:"target"`
	ProjectName  string              `json:"projectName"`
	Result       *DeploymentResult   `json:"result,omitempty"`
	Error        string              `json:"error,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
}
