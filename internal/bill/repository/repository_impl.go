package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/pharmabill/internal/bill/domain"
)

type repo struct {
	mu    sync.RWMutex
	items []domain.Bill
}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, bill *domain.Bill) error {
	if bill == nil || strings.TrimSpace(bill.ID) == "" {
		return domain.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(bill.ID) >= 0 {
		return domain.ErrDuplicate
	}
	r.items = append(r.items, bill.Clone())
	return nil
}

func (r *repo) FindByID(ctx context.Context, id string) (*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	b := r.items[idx].Clone()
	return &b, nil
}

func (r *repo) List(ctx context.Context, query string) ([]domain.Bill, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Bill, 0, len(r.items))
	for _, item := range r.items {
		if needle == "" ||
			strings.Contains(strings.ToLower(item.CustomerName), needle) ||
			strings.Contains(strings.ToLower(item.ID), needle) {
			items = append(items, item.Clone())
		}
	}
	return items, nil
}

func (r *repo) Replace(ctx context.Context, bill *domain.Bill) (bool, error) {
	if bill == nil {
		return false, domain.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(bill.ID)
	if idx < 0 {
		return false, nil
	}
	r.items[idx] = bill.Clone()
	return true, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *repo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
