package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"peds-medsafety/internal/domain/drugs"
)

type drugsRepo struct {
	mu   sync.RWMutex
	byID map[string]drugs.Drug
}

func NewDrugsRepo() drugs.Repository {
	return &drugsRepo{
		byID: make(map[string]drugs.Drug),
	}
}

func (r *drugsRepo) Create(ctx context.Context, d drugs.Drug) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("drug id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("drug already exists")
	}

	r.byID[d.ID] = d
	return nil
}

func (r *drugsRepo) GetByID(ctx context.Context, id string) (drugs.Drug, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return drugs.Drug{}, ErrNotFound
	}
	return d, nil
}

func (r *drugsRepo) List(ctx context.Context) ([]drugs.Drug, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]drugs.Drug, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
