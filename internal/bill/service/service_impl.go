package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/idgen"
	"github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"github.com/smallbiznis/pharmabill/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   idgen.Generator
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	genID   idgen.Generator
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return NewService(p)
}

func NewService(p Params) *Service {
	return &Service{
		log:     p.Log.Named("bill.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(req.Query))
	if err != nil {
		return nil, err
	}

	page, info := pagination.Paginate(items, req.Page, pagination.PageSize)
	return &domain.ListResponse{
		Items:      page,
		Total:      info.Total,
		Page:       info.Page,
		PageSize:   info.PageSize,
		TotalPages: info.TotalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// Create saves bill under its finalized id, or a new one when it has none.
// Totals are recomputed from the lines.
func (s *Service) Create(ctx context.Context, bill domain.Bill) (*domain.Bill, error) {
	b := bill.Clone()
	b.ID = strings.TrimSpace(b.ID)
	if err := b.Validate().Err(); err != nil {
		s.metrics.RecordValidationFailure(metrics.EntityBill)
		return nil, err
	}

	if b.ID == "" {
		b.ID = s.genID.NewID()
	}
	b.Recompute()

	if err := s.repo.Insert(ctx, &b); err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	s.metrics.RecordBillMutation(metrics.OpCreate)
	s.log.Info("bill created",
		zap.String("bill_id", b.ID),
		zap.Int("charges", len(b.Charges)),
		zap.Int("medicines", len(b.Medicines)),
		zap.Float64("total", b.Total),
	)
	return &b, nil
}

// Update replaces the full content of the bill with id, keeping its id and
// position.
func (s *Service) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b := bill.Clone()
	b.ID = existing.ID
	if err := b.Validate().Err(); err != nil {
		s.metrics.RecordValidationFailure(metrics.EntityBill)
		return nil, err
	}
	b.Recompute()

	replaced, err := s.repo.Replace(ctx, &b)
	if err != nil {
		return nil, fmt.Errorf("replace bill: %w", err)
	}
	if !replaced {
		return nil, domain.ErrNotFound
	}

	s.metrics.RecordBillMutation(metrics.OpUpdate)
	s.log.Info("bill updated", zap.String("bill_id", b.ID), zap.Float64("total", b.Total))
	return &b, nil
}

// Delete drops the bill with id. An unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	s.metrics.RecordBillMutation(metrics.OpDelete)
	s.log.Info("bill deleted", zap.String("bill_id", id))
	return nil
}
