package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Finding is one pattern match reported by the code scanner
type Finding struct {
	RuleID   string          `json:"rule"`
	Category FindingCategory `json:"type"`
	Severity Severity        `json:"severity"`
	Match    string          `json:"match"`
	Message  string          `json:"message"`
}

// HealingResult is the outcome of one heal call
type HealingResult struct {
	ID           uuid.UUID     `json:"id"`
	Language     string        `json:"language"`
	Original     string        `json:"original"`
	Healed       string        `json:"healed"`
	Findings     []Finding     `json:"findings"`
	FixesApplied int           `json:"fixesApplied"`
	Remaining    []Finding     `json:"remaining"`
	Confidence   float64       `json:"confidence"`
	Timestamp    time.Time     `json:"timestamp"`
	Duration     time.Duration `json:"duration"`
}

// MarshalJSON reports the duration in milliseconds and the number of findings
func (r HealingResult) MarshalJSON() ([]byte, error) {
	type alias HealingResult
	return json.Marshal(struct {
		alias
		ErrorsFound int   `json:"errorsFound"`
		Duration    int64 `json:"duration"`
	}{alias(r), len(r.Findings), r.Duration.Milliseconds()})
}
