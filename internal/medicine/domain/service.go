package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Medicine, error)
	Create(ctx context.Context, req Input) (*Medicine, error)
	Update(ctx context.Context, id string, req Input) (*Medicine, error)
	Delete(ctx context.Context, id string) error
}

// ListRequest filters by a case-insensitive substring of name or category.
// Page is 1-indexed.
type ListRequest struct {
	Query string
	Page  int
}

type ListResponse struct {
	Items      []Medicine `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Input carries every replaceable field of a Medicine.
type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ExpiryDate  string  `json:"expiry_date"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
	ErrDuplicate = errors.New("duplicate_id")
)
