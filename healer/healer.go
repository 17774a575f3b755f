// Package healer scans code for known problem patterns and asks a rewriter to fix them.
package healer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/store"
)

const (
	DefaultHistoryCapacity = 1000
	DefaultRewriteTimeout  = 60 * time.Second
)

// Rewriter returns a new version of code addressing finding
type Rewriter interface {
	Rewrite(ctx context.Context, code, language string, finding domain.Finding) (string, error)
}

// Observer is notified about every heal run
type Observer interface {
	Healed(result *domain.HealingResult)
}

// Healer runs the scan and rewrite loop
type Healer struct {
	scanner        *Scanner
	rewriter       Rewriter
	rewriteTimeout time.Duration
	observers      []Observer
	history        *store.Bounded[uuid.UUID, *domain.HealingResult]
	now            func() time.Time
}

// Option configures a Healer
type Option func(*Healer)

// WithRewriteTimeout bounds each rewrite call
func WithRewriteTimeout(d time.Duration) Option {
	return func(h *Healer) {
		if d > 0 {
			h.rewriteTimeout = d
		}
	}
}

// WithObserver registers an observer for heal results
func WithObserver(o Observer) Option {
	return func(h *Healer) {
		h.observers = append(h.observers, o)
	}
}

// New creates a healer. A nil rewriter makes every heal a scan-only run.
func New(scanner *Scanner, rewriter Rewriter, historyCapacity int, opts ...Option) *Healer {
	h := &Healer{
		scanner:        scanner,
		rewriter:       rewriter,
		rewriteTimeout: DefaultRewriteTimeout,
		history:        store.NewBounded[uuid.UUID, *domain.HealingResult](historyCapacity),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Scan reports findings without rewriting
func (h *Healer) Scan(code, language string) []domain.Finding {
	return h.scanner.Scan(code, language)
}

// Heal scans code, rewrites it once per finding and rescans the result.
// Rewrite failures are logged and skipped; Heal itself never fails.
func (h *Healer) Heal(ctx context.Context, code, language string) *domain.HealingResult {
	started := h.now()

	result := &domain.HealingResult{
		ID:        uuid.New(),
		Language:  language,
		Original:  code,
		Healed:    code,
		Findings:  h.scanner.Scan(code, language),
		Remaining: []domain.Finding{},
		Timestamp: started,
	}

	if len(result.Findings) == 0 {
		result.Confidence = 1.0
		h.finish(result, started)
		return result
	}

	current := code
	for _, finding := range result.Findings {
		fixed, err := h.rewrite(ctx, current, language, finding)
		if err != nil {
			slog.Warn("Rewrite failed, keeping current code",
				"layer", "healer",
				"operation", "rewrite",
				"rule", finding.RuleID,
				"error", err)
			continue
		}
		if fixed != current {
			current = fixed
			result.FixesApplied++
		}
	}

	result.Healed = current
	result.Remaining = h.scanner.Scan(current, language)
	result.Confidence = confidenceFor(len(result.Remaining))

	h.finish(result, started)
	return result
}

func (h *Healer) rewrite(ctx context.Context, code, language string, finding domain.Finding) (string, error) {
	if h.rewriter == nil {
		return "", domain.NotConfigured("code rewriter")
	}

	ctx, cancel := context.WithTimeout(ctx, h.rewriteTimeout)
	defer cancel()

	fixed, err := h.rewriter.Rewrite(ctx, code, language, finding)
	if err != nil {
		return "", fmt.Errorf("rewrite for %s: %w", finding.RuleID, err)
	}
	return fixed, nil
}

func (h *Healer) finish(result *domain.HealingResult, started time.Time) {
	result.Duration = h.now().Sub(started)
	h.history.Put(result.ID, result)
	for _, o := range h.observers {
		o.Healed(result)
	}

	slog.Info("Code healed",
		"heal_id", result.ID,
		"language", result.Language,
		"findings", len(result.Findings),
		"fixes_applied", result.FixesApplied,
		"remaining", len(result.Remaining),
		"confidence", result.Confidence)
}

// History returns past heal results, oldest first
func (h *Healer) History() []*domain.HealingResult {
	return h.history.Values()
}

func confidenceFor(remaining int) float64 {
	if remaining == 0 {
		return 1.0
	}
	return max(0, 1-0.1*float64(remaining))
}
