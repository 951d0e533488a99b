package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Bill, error)
	Create(ctx context.Context, bill Bill) (*Bill, error)
	Update(ctx context.Context, id string, bill Bill) (*Bill, error)
	Delete(ctx context.Context, id string) error
}

// ListRequest filters by a case-insensitive substring of the customer name
// or the bill id. Page is 1-indexed.
type ListRequest struct {
	Query string
	Page  int
}

type ListResponse struct {
	Items      []Bill `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
	ErrDuplicate = errors.New("duplicate_id")
)
