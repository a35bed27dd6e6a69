package drugs

import "context"

type Repository interface {
	Create(ctx context.Context, d Drug) error
	GetByID(ctx context.Context, id string) (Drug, error)
	List(ctx context.Context) ([]Drug, error)
}
