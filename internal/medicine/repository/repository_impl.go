package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/pharmabill/internal/medicine/domain"
)

type repo struct {
	mu    sync.RWMutex
	items []domain.Medicine
}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, medicine *domain.Medicine) error {
	if medicine == nil || strings.TrimSpace(medicine.ID) == "" {
		return domain.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(medicine.ID) >= 0 {
		return domain.ErrDuplicate
	}
	r.items = append(r.items, *medicine)
	return nil
}

func (r *repo) FindByID(ctx context.Context, id string) (*domain.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	m := r.items[idx]
	return &m, nil
}

func (r *repo) List(ctx context.Context, query string) ([]domain.Medicine, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Medicine, 0, len(r.items))
	for _, item := range r.items {
		if needle == "" ||
			strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(string(item.Category)), needle) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *repo) Replace(ctx context.Context, medicine *domain.Medicine) (bool, error) {
	if medicine == nil {
		return false, domain.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(medicine.ID)
	if idx < 0 {
		return false, nil
	}
	r.items[idx] = *medicine
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
