package memory

import (
	"context"
	"sync"

	"peds-medsafety/internal/domain/alerts"
)

type alertsRepo struct {
	mu    sync.RWMutex
	items []alerts.Alert
}

func NewAlertsRepo() alerts.Repository {
	return &alertsRepo{}
}

func (r *alertsRepo) Append(ctx context.Context, a alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, a)
	return nil
}

// List devuelve las alertas más recientes primero.
func (r *alertsRepo) List(ctx context.Context, limit int) ([]alerts.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}

	out := make([]alerts.Alert, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}
