package appointment

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

// ScheduleResult describes a newly scheduled appointment.
type ScheduleResult struct {
	Appointment *model.Appointment
	// PrimaryDoctorAssigned is set when the patient had no primary doctor
	// and the appointment's doctor became it.
	PrimaryDoctorAssigned bool
}

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	doctors   repository.DoctorRepository
	validator validator.Validator
	auditor   audit.Auditor
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository, doctors repository.DoctorRepository, auditor audit.Auditor, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		patients:  patients,
		doctors:   doctors,
		validator: validator.New(),
		auditor:   auditor,
		metrics:   m,
		logger:    log.With("appointment"),
	}
}

// Schedule books an appointment after checking that both the patient and
// the doctor exist. Nothing is created when either check fails.
func (s *Service) Schedule(ctx context.Context, req *model.CreateAppointmentRequest) (*ScheduleResult, error) {
	result, err := s.schedule(ctx, req)
	s.metrics.ObserveOperation("appointment.create", err)
	return result, err
}

func (s *Service) schedule(ctx context.Context, req *model.CreateAppointmentRequest) (*ScheduleResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid appointment: %w", err)
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnknownPatient(req.PatientID)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if _, err := s.doctors.Get(ctx, req.DoctorID); err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnknownDoctor(req.DoctorID)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	apt := &model.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.audit(ctx, model.AuditActionCreate, apt.ID, apt)

	result := &ScheduleResult{Appointment: apt}
	if !patient.HasDoctor() {
		patient.DoctorID = req.DoctorID
		if err := s.patients.Update(ctx, patient); err != nil {
			return nil, fmt.Errorf("failed to set primary doctor: %w", err)
		}
		result.PrimaryDoctorAssigned = true
		s.logger.Debug("primary doctor set from appointment", "patient_id", patient.ID, "doctor_id", req.DoctorID)
	}
	return result, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	apts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return apts, nil
}

// CancelAppointment removes the appointment when confirmed is true. An
// unknown ID fails before confirmation matters; a declined cancellation
// returns nil and no error.
func (s *Service) CancelAppointment(ctx context.Context, id int, confirmed bool) (*model.Appointment, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		s.metrics.ObserveOperation("appointment.cancel", err)
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !confirmed {
		return nil, nil
	}

	removed, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveOperation("appointment.cancel", err)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	s.audit(ctx, model.AuditActionCancel, id, removed)
	return removed, nil
}

func (s *Service) audit(ctx context.Context, action string, id int, changes interface{}) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Log(ctx, action, model.AuditEntityAppointment, id, &audit.LogOptions{Changes: changes}); err != nil {
		s.logger.Error(err, "failed to write audit entry", "action", action, "appointment_id", id)
	}
}
