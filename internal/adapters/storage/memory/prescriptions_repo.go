package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"peds-medsafety/internal/domain/prescriptions"
)

type prescriptionsRepo struct {
	mu   sync.RWMutex
	byID map[string]prescriptions.Prescription
}

func NewPrescriptionsRepo() prescriptions.Repository {
	return &prescriptionsRepo{
		byID: make(map[string]prescriptions.Prescription),
	}
}

func (r *prescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("prescription id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("prescription already exists")
	}

	r.byID[p.ID] = p
	return nil
}

func (r *prescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, ErrNotFound
	}
	return p, nil
}

func (r *prescriptionsRepo) ListByPatient(ctx context.Context, patientID string) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0)
	for _, p := range r.byID {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update aplica el chequeo optimista bajo el mismo lock: si el estado
// almacenado ya no es prev, otra transición ganó la carrera.
func (r *prescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription, prev prescriptions.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Status != prev {
		return prescriptions.ErrConflict
	}

	r.byID[p.ID] = p
	return nil
}
