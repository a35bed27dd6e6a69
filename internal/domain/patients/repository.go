package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	List(ctx context.Context) ([]Patient, error)
}
