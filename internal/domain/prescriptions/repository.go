package prescriptions

import (
	"context"
	"errors"
)

// ErrConflict lo devuelve Update cuando el estado almacenado ya no coincide
// con el que vio el caller: dos transiciones concurrentes sobre la misma
// receta no pueden tener éxito las dos.
var ErrConflict = errors.New("prescription state conflict")

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]Prescription, error)

	// Update persiste la receta solo si el estado almacenado sigue siendo
	// prev; si no, devuelve ErrConflict.
	Update(ctx context.Context, p Prescription, prev Status) error
}
