package domain

import "context"

// Repository keeps medicines in insertion order.
type Repository interface {
	Insert(ctx context.Context, medicine *Medicine) error
	FindByID(ctx context.Context, id string) (*Medicine, error)
	List(ctx context.Context, query string) ([]Medicine, error)
	Replace(ctx context.Context, medicine *Medicine) (bool, error)
	Delete(ctx context.Context, id string) error
}
