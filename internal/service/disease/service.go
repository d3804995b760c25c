package disease

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
	"github.com/jwalitptl/hms/internal/service/audit"
	"github.com/jwalitptl/hms/pkg/logger"
	"github.com/jwalitptl/hms/pkg/metrics"
	"github.com/jwalitptl/hms/pkg/validator"
)

type Service interface {
	AddDisease(ctx context.Context, disease *model.Disease) error
	GetDisease(ctx context.Context, id int) (*model.Disease, error)
	ListDiseases(ctx context.Context) ([]*model.Disease, error)
}

type service struct {
	repo      repository.DiseaseRepository
	validator validator.Validator
	auditor   audit.Auditor
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(repo repository.DiseaseRepository, auditor audit.Auditor, m *metrics.Metrics, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		repo:      repo,
		validator: validator.New(),
		auditor:   auditor,
		metrics:   m,
		logger:    log.With("disease"),
	}
}

func (s *service) AddDisease(ctx context.Context, disease *model.Disease) error {
	err := s.addDisease(ctx, disease)
	s.metrics.ObserveOperation("disease.create", err)
	return err
}

func (s *service) addDisease(ctx context.Context, disease *model.Disease) error {
	if err := s.validator.Validate(disease); err != nil {
		return fmt.Errorf("invalid disease data: %w", err)
	}
	if err := s.repo.Create(ctx, disease); err != nil {
		return fmt.Errorf("failed to create disease: %w", err)
	}

	if s.auditor != nil {
		if err := s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityDisease, disease.ID, &audit.LogOptions{Changes: disease}); err != nil {
			s.logger.Error(err, "failed to write audit entry", "disease_id", disease.ID)
		}
	}
	return nil
}

func (s *service) GetDisease(ctx context.Context, id int) (*model.Disease, error) {
	disease, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get disease: %w", err)
	}
	return disease, nil
}

func (s *service) ListDiseases(ctx context.Context) ([]*model.Disease, error) {
	diseases, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list diseases: %w", err)
	}
	return diseases, nil
}
