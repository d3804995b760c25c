package file

import (
	"context"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository/memory"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/metrics"
)

func crcOf(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospital_data.bin")
	snap := sampleSnapshot()

	require.NoError(t, Save(path, snap))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoadMissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.bin"))
	require.NoError(t, err)
	assert.Equal(t, model.NewSnapshot(), got)
}

func TestLoadTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, Save(path, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-7], 0o644))

	_, err = Load(path)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCorruptData))
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "nope", "data.bin"), model.NewSnapshot())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrIOFailure))
}

func TestPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.bin")

	store := memory.NewStore(model.DefaultLimits())
	patients := memory.NewPatientRepository(store)
	require.NoError(t, patients.Create(ctx, &model.Patient{Name: "a"}))
	require.NoError(t, patients.Create(ctx, &model.Patient{Name: "b"}))
	_, err := patients.Delete(ctx, 1)
	require.NoError(t, err)

	m := metrics.New("test")
	require.NoError(t, NewPersister(path, store, m, nil).Save(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistenceOperations.WithLabelValues("save", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Records.WithLabelValues("patient")))

	restored := memory.NewStore(model.DefaultLimits())
	counts, err := NewPersister(path, restored, nil, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Patients)
	assert.Equal(t, store.Snapshot(), restored.Snapshot())

	p := &model.Patient{Name: "c"}
	require.NoError(t, memory.NewPatientRepository(restored).Create(ctx, p))
	assert.Equal(t, 3, p.ID)
}

func TestPersisterSaveIfChanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.bin")
	store := memory.NewStore(model.DefaultLimits())
	persister := NewPersister(path, store, nil, nil)

	_, err := persister.Load(ctx)
	require.NoError(t, err)

	wrote, err := persister.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.NoFileExists(t, path)

	require.NoError(t, memory.NewDoctorRepository(store).Create(ctx, &model.Doctor{Name: "Dr. A"}))
	wrote, err = persister.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.FileExists(t, path)

	wrote, err = persister.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestPersisterLoadCorruptLeavesStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	store := memory.NewStore(model.DefaultLimits())
	require.NoError(t, memory.NewDoctorRepository(store).Create(ctx, &model.Doctor{Name: "Dr. A"}))
	before := store.Snapshot()

	persister := NewPersister(path, store, nil, nil)
	_, err := persister.Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCorruptData))
	assert.Equal(t, before, store.Snapshot())

	persister.now = func() time.Time { return time.Unix(1700000000, 0) }
	dest, err := persister.Quarantine()
	require.NoError(t, err)
	assert.Equal(t, path+".corrupt-1700000000", dest)
	assert.NoFileExists(t, path)
	assert.FileExists(t, dest)
}

func TestPersisterLoadOverLimits(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, Save(path, sampleSnapshot()))

	small := memory.NewStore(model.Limits{Patients: 1, Diseases: 10, Doctors: 10, Appointments: 10})
	_, err := NewPersister(path, small, nil, nil).Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCorruptData))
	assert.Zero(t, small.Counts().Patients)
}

func TestPersisterHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	persister := NewPersister(filepath.Join(t.TempDir(), "data.bin"), memory.NewStore(model.DefaultLimits()), nil, nil)
	assert.ErrorIs(t, persister.Save(ctx), context.Canceled)
}
