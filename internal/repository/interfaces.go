package repository

import (
	"context"

	"github.com/jwalitptl/hms/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient records. Delete and SortByName
	// preserve the relative order of the remaining records.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		FindByName(ctx context.Context, name string) ([]*model.Patient, error)
		SortByName(ctx context.Context) (int, error)
	}

	// DoctorRepository is append-only.
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id int) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	// DiseaseRepository is append-only reference data.
	DiseaseRepository interface {
		Create(ctx context.Context, disease *model.Disease) error
		Get(ctx context.Context, id int) (*model.Disease, error)
		List(ctx context.Context) ([]*model.Disease, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int) (*model.Appointment, error)
		Delete(ctx context.Context, id int) (*model.Appointment, error)
		List(ctx context.Context) ([]*model.Appointment, error)
	}

	// SnapshotStore is implemented by stores that can be persisted whole.
	SnapshotStore interface {
		Snapshot() *model.Snapshot
		Restore(snapshot *model.Snapshot) error
		Version() uint64
	}
)
