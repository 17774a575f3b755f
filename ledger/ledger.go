// Package ledger keeps the template marketplace: published templates, purchases and revenue.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ultrabuild/ultrabuild/domain"
)

// Store persists ledger changes. Failures are logged and never fail an operation.
type Store interface {
	SaveTemplate(template *domain.Template) error
	ListTemplates() ([]*domain.Template, error)
	RecordPurchase(purchase *domain.Purchase) error
	TotalRevenue() (float64, error)
}

// Observer is notified about completed purchases
type Observer interface {
	Purchased(template *domain.Template, purchase *domain.Purchase)
}

// Ledger is a mutex-guarded template map with a running revenue counter
type Ledger struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*domain.Template
	order     []uuid.UUID
	revenue   float64

	store     Store
	observers []Observer
	now       func() time.Time
}

// Option configures a Ledger
type Option func(*Ledger)

// WithStore persists templates and purchases
func WithStore(s Store) Option {
	return func(l *Ledger) {
		l.store = s
	}
}

// WithObserver registers a purchase observer
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		l.observers = append(l.observers, o)
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		templates: make(map[uuid.UUID]*domain.Template),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore loads templates and revenue from the store, replacing the in-memory state
func (l *Ledger) Restore() error {
	if l.store == nil {
		return nil
	}

	templates, err := l.store.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	revenue, err := l.store.TotalRevenue()
	if err != nil {
		return fmt.Errorf("failed to load revenue: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.templates = make(map[uuid.UUID]*domain.Template, len(templates))
	l.order = l.order[:0]
	for _, t := range templates {
		l.templates[t.ID] = t
		l.order = append(l.order, t.ID)
	}
	l.revenue = revenue

	slog.Info("Ledger restored", "templates", len(templates), "revenue", revenue)
	return nil
}

// Publish stores t, replacing any template with the same id. Downloads are
// owned by the ledger: a new template starts at zero and a replacement keeps
// the stored count. An id is assigned when t has none and negative prices are
// clamped to zero. It never fails.
func (l *Ledger) Publish(t domain.Template) *domain.Template {
	now := l.now()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Price < 0 {
		t.Price = 0
	}

	l.mu.Lock()
	if existing, ok := l.templates[t.ID]; ok {
		t.CreatedAt = existing.CreatedAt
		t.Downloads = existing.Downloads
	} else {
		t.Downloads = 0
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		l.order = append(l.order, t.ID)
	}
	t.UpdatedAt = now
	stored := &t
	l.templates[t.ID] = stored
	snapshot := *stored
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.SaveTemplate(&snapshot); err != nil {
			slog.Warn("Failed to persist template",
				"layer", "ledger",
				"operation", "publish",
				"template_id", t.ID,
				"error", err)
		}
	}

	slog.Info("Template published", "template_id", t.ID, "template_name", t.Name, "price", t.Price)
	return &snapshot
}

// Purchase records a sale of templateID. Unknown ids return false. Repeated
// purchases by the same buyer count again.
func (l *Ledger) Purchase(templateID uuid.UUID, buyerID string) bool {
	l.mu.Lock()
	t, ok := l.templates[templateID]
	if !ok {
		l.mu.Unlock()
		slog.Debug("Purchase of unknown template", "template_id", templateID, "buyer_id", buyerID)
		return false
	}
	t.Downloads++
	l.revenue += t.Price
	purchase := &domain.Purchase{
		ID:         uuid.New(),
		TemplateID: templateID,
		BuyerID:    buyerID,
		Price:      t.Price,
		CreatedAt:  l.now(),
	}
	snapshot := *t
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.RecordPurchase(purchase); err != nil {
			slog.Warn("Failed to persist purchase",
				"layer", "ledger",
				"operation", "purchase",
				"template_id", templateID,
				"error", err)
		}
	}
	for _, o := range l.observers {
		o.Purchased(&snapshot, purchase)
	}

	slog.Info("Template purchased", "template_id", templateID, "buyer_id", buyerID, "price", purchase.Price)
	return true
}

// Get returns a copy of a template
func (l *Ledger) Get(id uuid.UUID) (*domain.Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s %w", id, domain.ErrNotFound)
	}
	c := *t
	return &c, nil
}

// List returns copies of all templates in publish order
func (l *Ledger) List() []*domain.Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Template, 0, len(l.order))
	for _, id := range l.order {
		c := *l.templates[id]
		out = append(out, &c)
	}
	return out
}

// Revenue returns the total of all purchase prices
func (l *Ledger) Revenue() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revenue
}

// Count returns the number of published templates
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}
