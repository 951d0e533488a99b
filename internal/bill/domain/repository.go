package domain

import "context"

// Repository keeps bills in insertion order. Implementations store and
// return deep copies.
type Repository interface {
	Insert(ctx context.Context, bill *Bill) error
	FindByID(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, query string) ([]Bill, error)
	Replace(ctx context.Context, bill *Bill) (bool, error)
	Delete(ctx context.Context, id string) error
}
