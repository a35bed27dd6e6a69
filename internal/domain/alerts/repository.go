package alerts

import "context"

type Repository interface {
	Append(ctx context.Context, a Alert) error
	List(ctx context.Context, limit int) ([]Alert, error)
}
