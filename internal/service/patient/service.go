package patient

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
	"github.com/jwalitptl/hms/internal/service/audit"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/logger"
	"github.com/jwalitptl/hms/pkg/metrics"
	"github.com/jwalitptl/hms/pkg/validator"
)

// UnknownName is shown wherever a referenced record no longer exists.
const UnknownName = "Unknown"

type PatientService interface {
	CreatePatient(ctx context.Context, patient *model.Patient) (model.Assignment, error)
	AssignDoctor(ctx context.Context, patientID, doctorID int) (model.Assignment, error)
	GetPatient(ctx context.Context, id int) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	SearchByName(ctx context.Context, name string) ([]*model.Patient, error)
	DeletePatient(ctx context.Context, id int, confirmed bool) (*model.Patient, error)
	SortByName(ctx context.Context) (int, error)
	ResolveName(ctx context.Context, id int) string
}

type Service struct {
	repo      repository.PatientRepository
	doctors   repository.DoctorRepository
	validator validator.Validator
	auditor   audit.Auditor
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(repo repository.PatientRepository, doctors repository.DoctorRepository, auditor audit.Auditor, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		doctors:   doctors,
		validator: validator.New(),
		auditor:   auditor,
		metrics:   m,
		logger:    log.With("patient"),
	}
}

// CreatePatient stores a new patient without a doctor and then tries to
// assign the requested one. An unknown doctor is reported through the
// returned Assignment, not as an error.
func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) (model.Assignment, error) {
	assignment, err := s.createPatient(ctx, patient)
	s.metrics.ObserveOperation("patient.create", err)
	return assignment, err
}

func (s *Service) createPatient(ctx context.Context, patient *model.Patient) (model.Assignment, error) {
	if err := s.validator.Validate(patient); err != nil {
		return model.AssignmentNone, fmt.Errorf("invalid patient data: %w", err)
	}

	requested := patient.DoctorID
	patient.DoctorID = 0
	if err := s.repo.Create(ctx, patient); err != nil {
		return model.AssignmentNone, fmt.Errorf("failed to create patient: %w", err)
	}
	s.audit(ctx, model.AuditActionCreate, patient.ID, patient)

	assignment, err := s.assignDoctor(ctx, patient.ID, requested)
	if err != nil {
		return model.AssignmentNone, err
	}
	if assignment == model.AssignmentAssigned {
		patient.DoctorID = requested
	}
	return assignment, nil
}

// AssignDoctor makes doctorID the patient's primary doctor. A zero doctorID
// leaves the patient untouched.
func (s *Service) AssignDoctor(ctx context.Context, patientID, doctorID int) (model.Assignment, error) {
	assignment, err := s.assignDoctor(ctx, patientID, doctorID)
	s.metrics.ObserveOperation("patient.assign_doctor", err)
	return assignment, err
}

func (s *Service) assignDoctor(ctx context.Context, patientID, doctorID int) (model.Assignment, error) {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return model.AssignmentNone, fmt.Errorf("failed to get patient: %w", err)
	}
	if doctorID == 0 {
		return model.AssignmentNone, nil
	}

	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			s.logger.Warn("requested doctor does not exist", "patient_id", patientID, "doctor_id", doctorID)
			return model.AssignmentUnknownDoctor, nil
		}
		return model.AssignmentNone, fmt.Errorf("failed to get doctor: %w", err)
	}

	patient.DoctorID = doctorID
	if err := s.repo.Update(ctx, patient); err != nil {
		return model.AssignmentNone, fmt.Errorf("failed to update patient: %w", err)
	}
	s.audit(ctx, model.AuditActionUpdate, patientID, map[string]int{"doctor_id": doctorID})
	return model.AssignmentAssigned, nil
}

func (s *Service) GetPatient(ctx context.Context, id int) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// SearchByName returns every patient whose name equals name ignoring case.
func (s *Service) SearchByName(ctx context.Context, name string) ([]*model.Patient, error) {
	patients, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

// DeletePatient removes the patient when confirmed is true. Existence is
// checked first, so an unknown ID fails even when the caller declined.
// A declined deletion returns nil and no error.
func (s *Service) DeletePatient(ctx context.Context, id int, confirmed bool) (*model.Patient, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		s.metrics.ObserveOperation("patient.delete", err)
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if !confirmed {
		return nil, nil
	}

	removed, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveOperation("patient.delete", err)
	if err != nil {
		return nil, fmt.Errorf("failed to delete patient: %w", err)
	}
	s.audit(ctx, model.AuditActionDelete, id, removed)
	return removed, nil
}

// SortByName reorders patients by case-folded name and returns how many
// there are. Fewer than two is a no-op.
func (s *Service) SortByName(ctx context.Context) (int, error) {
	n, err := s.repo.SortByName(ctx)
	s.metrics.ObserveOperation("patient.sort", err)
	if err != nil {
		return 0, fmt.Errorf("failed to sort patients: %w", err)
	}
	if n >= 2 {
		s.audit(ctx, model.AuditActionSort, 0, map[string]int{"count": n})
	}
	return n, nil
}

func (s *Service) ResolveName(ctx context.Context, id int) string {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return UnknownName
	}
	return patient.Name
}

func (s *Service) audit(ctx context.Context, action string, id int, changes interface{}) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Log(ctx, action, model.AuditEntityPatient, id, &audit.LogOptions{Changes: changes}); err != nil {
		s.logger.Error(err, "failed to write audit entry", "action", action, "patient_id", id)
	}
}
