package doctor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
	"github.com/jwalitptl/hms/internal/service/audit"
	"github.com/jwalitptl/hms/pkg/logger"
	"github.com/jwalitptl/hms/pkg/metrics"
	"github.com/jwalitptl/hms/pkg/validator"
)

// UnknownName is returned by ResolveName for IDs with no doctor behind them.
const UnknownName = "Unknown"

type Service interface {
	AddDoctor(ctx context.Context, doctor *model.Doctor) error
	GetDoctor(ctx context.Context, id int) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	ResolveName(ctx context.Context, id int) string
}

type service struct {
	repo      repository.DoctorRepository
	validator validator.Validator
	auditor   audit.Auditor
	metrics   *metrics.Metrics
	logger    *logger.Logger

	// Doctors are never edited or deleted, so a resolved name stays valid
	// for the life of the process.
	names *cache.Cache
}

func NewService(repo repository.DoctorRepository, auditor audit.Auditor, m *metrics.Metrics, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		repo:      repo,
		validator: validator.New(),
		auditor:   auditor,
		metrics:   m,
		logger:    log.With("doctor"),
		names:     cache.New(cache.NoExpiration, 0),
	}
}

func (s *service) AddDoctor(ctx context.Context, doctor *model.Doctor) error {
	err := s.addDoctor(ctx, doctor)
	s.metrics.ObserveOperation("doctor.create", err)
	return err
}

func (s *service) addDoctor(ctx context.Context, doctor *model.Doctor) error {
	if err := s.validator.Validate(doctor); err != nil {
		return fmt.Errorf("invalid doctor data: %w", err)
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	if s.auditor != nil {
		if err := s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityDoctor, doctor.ID, &audit.LogOptions{Changes: doctor}); err != nil {
			s.logger.Error(err, "failed to write audit entry", "doctor_id", doctor.ID)
		}
	}
	return nil
}

func (s *service) GetDoctor(ctx context.Context, id int) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// ResolveName returns the doctor's name, or UnknownName when there is no
// such doctor. Misses are not cached: the ID may be created later.
func (s *service) ResolveName(ctx context.Context, id int) string {
	key := strconv.Itoa(id)
	if name, found := s.names.Get(key); found {
		return name.(string)
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return UnknownName
	}
	s.names.Set(key, doctor.Name, cache.NoExpiration)
	return doctor.Name
}
