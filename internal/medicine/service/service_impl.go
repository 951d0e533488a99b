package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/pharmabill/internal/clock"
	"github.com/smallbiznis/pharmabill/internal/idgen"
	"github.com/smallbiznis/pharmabill/internal/medicine/domain"
	"github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"github.com/smallbiznis/pharmabill/internal/validation"
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

// NewService returns the concrete catalog service.
func NewService(p Params) *Service {
	return &Service{
		log:     p.Log.Named("medicine.service"),
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

func (s *Service) Get(ctx context.Context, id string) (*domain.Medicine, error) {
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

func (s *Service) Create(ctx context.Context, req domain.Input) (*domain.Medicine, error) {
	req = normalizeInput(req)
	if err := ValidateInput(req).Err(); err != nil {
		s.metrics.RecordValidationFailure(metrics.EntityMedicine)
		return nil, err
	}

	m := toMedicine(s.genID.NewID(), req)
	if err := s.repo.Insert(ctx, &m); err != nil {
		return nil, fmt.Errorf("insert medicine: %w", err)
	}

	s.metrics.RecordMedicineMutation(metrics.OpCreate)
	s.log.Info("medicine created", zap.String("medicine_id", m.ID), zap.String("name", m.Name))
	return &m, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.Input) (*domain.Medicine, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req = normalizeInput(req)
	if err := ValidateInput(req).Err(); err != nil {
		s.metrics.RecordValidationFailure(metrics.EntityMedicine)
		return nil, err
	}

	m := toMedicine(existing.ID, req)
	replaced, err := s.repo.Replace(ctx, &m)
	if err != nil {
		return nil, fmt.Errorf("replace medicine: %w", err)
	}
	if !replaced {
		return nil, domain.ErrNotFound
	}

	s.metrics.RecordMedicineMutation(metrics.OpUpdate)
	s.log.Info("medicine updated", zap.String("medicine_id", m.ID))
	return &m, nil
}

// Delete drops the medicine with id. An unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	s.metrics.RecordMedicineMutation(metrics.OpDelete)
	s.log.Info("medicine deleted", zap.String("medicine_id", id))
	return nil
}

// ValidateInput checks every field and reports all failures together.
func ValidateInput(in domain.Input) validation.Errors {
	errs := validation.Errors{}

	errs.Check(validation.NonBlank(in.Name), "name", "Name is required")

	switch {
	case !validation.NonBlank(in.Category):
		errs.Add("category", "Category is required")
	case !validation.IsKnownCategory(in.Category):
		errs.Add("category", "Unknown category")
	}

	errs.Check(validation.Positive(in.Price), "price", "Price must be greater than 0")
	errs.Check(validation.NonNegative(float64(in.Stock)), "stock", "Stock cannot be negative")

	switch {
	case !validation.NonBlank(in.ExpiryDate):
		errs.Add("expiryDate", "Expiry date is required")
	case !validation.IsDate(in.ExpiryDate):
		errs.Add("expiryDate", "Expiry date must be a YYYY-MM-DD date")
	}

	return errs
}

// DefaultExpiryDate is one year from today, prefilled on new medicine forms.
func DefaultExpiryDate(c clock.Clock) string {
	return c.Now().AddDate(1, 0, 0).Format(clock.DateLayout)
}

func normalizeInput(in domain.Input) domain.Input {
	return domain.Input{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
		ExpiryDate:  strings.TrimSpace(in.ExpiryDate),
	}
}

func toMedicine(id string, in domain.Input) domain.Medicine {
	return domain.Medicine{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    domain.Category(in.Category),
		ExpiryDate:  in.ExpiryDate,
	}
}
