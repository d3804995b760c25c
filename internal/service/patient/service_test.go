package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository/memory"
	"github.com/jwalitptl/hms/internal/service/audit"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/metrics"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	auditor *audit.Service
	metrics *metrics.Metrics
}

func setup(t *testing.T, doctorNames ...string) *fixture {
	t.Helper()
	store := memory.NewStore(model.DefaultLimits())
	doctors := memory.NewDoctorRepository(store)
	for _, name := range doctorNames {
		require.NoError(t, doctors.Create(context.Background(), &model.Doctor{Name: name}))
	}

	auditor := audit.NewService(nil)
	m := metrics.New("test")
	return &fixture{
		svc:     NewService(memory.NewPatientRepository(store), doctors, auditor, m, nil),
		store:   store,
		auditor: auditor,
		metrics: m,
	}
}

func TestCreatePatientAssignsKnownDoctor(t *testing.T) {
	f := setup(t, "Dr. House")
	ctx := context.Background()

	p := &model.Patient{Name: "John", Age: 40, Gender: "M", Phone: "555", Disease: "Flu", DoctorID: 1}
	assignment, err := f.svc.CreatePatient(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentAssigned, assignment)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, 1, p.DoctorID)

	stored, err := f.svc.GetPatient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.DoctorID)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Operations.WithLabelValues("patient.create", "success")))
}

func TestCreatePatientUnknownDoctorLeavesNone(t *testing.T) {
	f := setup(t, "Dr. House")
	ctx := context.Background()

	p := &model.Patient{Name: "John", DoctorID: 9}
	assignment, err := f.svc.CreatePatient(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentUnknownDoctor, assignment)
	assert.Zero(t, p.DoctorID)

	stored, err := f.svc.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasDoctor())
}

func TestCreatePatientWithoutDoctor(t *testing.T) {
	f := setup(t)
	assignment, err := f.svc.CreatePatient(context.Background(), &model.Patient{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentNone, assignment)
}

func TestCreatePatientRejectsInvalidInput(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name    string
		patient *model.Patient
	}{
		{"negative age", &model.Patient{Name: "x", Age: -1}},
		{"name too long", &model.Patient{Name: strings.Repeat("a", 100)}},
		{"gender too long", &model.Patient{Name: "x", Gender: "0123456789"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreatePatient(context.Background(), tt.patient)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidInput))
		})
	}
	assert.Zero(t, f.store.Counts().Patients)
}

func TestCreatePatientCapacity(t *testing.T) {
	store := memory.NewStore(model.Limits{Patients: 1, Diseases: 1, Doctors: 1, Appointments: 1})
	svc := NewService(memory.NewPatientRepository(store), memory.NewDoctorRepository(store), audit.NewService(nil), nil, nil)

	_, err := svc.CreatePatient(context.Background(), &model.Patient{Name: "a"})
	require.NoError(t, err)
	_, err = svc.CreatePatient(context.Background(), &model.Patient{Name: "b"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCapacityExceeded))
	assert.Equal(t, 1, store.Counts().Patients)
}

func TestAssignDoctor(t *testing.T) {
	f := setup(t, "Dr. A", "Dr. B")
	ctx := context.Background()
	_, err := f.svc.CreatePatient(ctx, &model.Patient{Name: "p"})
	require.NoError(t, err)

	assignment, err := f.svc.AssignDoctor(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentAssigned, assignment)

	assignment, err = f.svc.AssignDoctor(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentNone, assignment)

	p, err := f.svc.GetPatient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.DoctorID, "zero leaves the current doctor alone")

	_, err = f.svc.AssignDoctor(ctx, 42, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestSearchByName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, name := range []string{"John", "Johnny", "JOHN"} {
		_, err := f.svc.CreatePatient(ctx, &model.Patient{Name: name})
		require.NoError(t, err)
	}

	found, err := f.svc.SearchByName(ctx, "john")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].ID)
	assert.Equal(t, 3, found[1].ID)
}

func TestDeletePatient(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := f.svc.CreatePatient(ctx, &model.Patient{Name: name})
		require.NoError(t, err)
	}

	t.Run("unknown id", func(t *testing.T) {
		removed, err := f.svc.DeletePatient(ctx, 99, true)
		assert.Nil(t, removed)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
		assert.Equal(t, 3, f.store.Counts().Patients)
	})

	t.Run("declined", func(t *testing.T) {
		removed, err := f.svc.DeletePatient(ctx, 2, false)
		require.NoError(t, err)
		assert.Nil(t, removed)
		assert.Equal(t, 3, f.store.Counts().Patients)
	})

	t.Run("confirmed", func(t *testing.T) {
		removed, err := f.svc.DeletePatient(ctx, 2, true)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, "b", removed.Name)

		list, err := f.svc.ListPatients(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].Name)
		assert.Equal(t, "c", list[1].Name)
	})

	recent := f.auditor.Recent()
	last := recent[len(recent)-1]
	assert.Equal(t, model.AuditActionDelete, last.Action)
	assert.Equal(t, 2, last.EntityID)
}

func TestSortByName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, err := f.svc.SortByName(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, name := range []string{"bob", "Alice", "alice"} {
		_, err := f.svc.CreatePatient(ctx, &model.Patient{Name: name})
		require.NoError(t, err)
	}
	n, err = f.svc.SortByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := f.svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "alice", list[1].Name)
	assert.Equal(t, "bob", list[2].Name)
}

func TestResolveName(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreatePatient(context.Background(), &model.Patient{Name: "Jane"})
	require.NoError(t, err)

	assert.Equal(t, "Jane", f.svc.ResolveName(context.Background(), 1))
	assert.Equal(t, UnknownName, f.svc.ResolveName(context.Background(), 2))
}
