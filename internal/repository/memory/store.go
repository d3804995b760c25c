// Package memory is the in-process record store: four independently numbered
// collections owned by one Store and guarded by a single lock, so every
// mutation is serialized (single writer) while snapshots run alongside reads.
package memory

import (
	"fmt"
	"sync"

	"github.com/jwalitptl/hms/internal/model"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
)

type Store struct {
	mu      sync.RWMutex
	limits  model.Limits
	version uint64

	patients     *collection[model.Patient]
	diseases     *collection[model.Disease]
	doctors      *collection[model.Doctor]
	appointments *collection[model.Appointment]
}

// NewStore creates an empty store with every counter at 1.
func NewStore(limits model.Limits) *Store {
	return &Store{
		limits: limits,
		patients: newCollection("patient", limits.Patients,
			func(p *model.Patient) int { return p.ID },
			func(p *model.Patient, id int) { p.ID = id }),
		diseases: newCollection("disease", limits.Diseases,
			func(d *model.Disease) int { return d.ID },
			func(d *model.Disease, id int) { d.ID = id }),
		doctors: newCollection("doctor", limits.Doctors,
			func(d *model.Doctor) int { return d.ID },
			func(d *model.Doctor, id int) { d.ID = id }),
		appointments: newCollection("appointment", limits.Appointments,
			func(a *model.Appointment) int { return a.ID },
			func(a *model.Appointment, id int) { a.ID = id }),
	}
}

func (s *Store) Limits() model.Limits {
	return s.limits
}

// Version increases on every successful mutation. Autosave compares it
// against the version last written.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Counts() model.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Counts{
		Patients:     s.patients.len(),
		Diseases:     s.diseases.len(),
		Doctors:      s.doctors.len(),
		Appointments: s.appointments.len(),
	}
}

// Snapshot copies the whole database.
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &model.Snapshot{
		Patients:     s.patients.values(),
		Diseases:     s.diseases.values(),
		Doctors:      s.doctors.values(),
		Appointments: s.appointments.values(),
		Counters: model.Counters{
			NextPatientID:     s.patients.nextID,
			NextDiseaseID:     s.diseases.nextID,
			NextDoctorID:      s.doctors.nextID,
			NextAppointmentID: s.appointments.nextID,
		},
	}
}

// Restore replaces the whole database with snapshot after checking it
// against the store's limits and ID invariants. On error nothing changes.
func (s *Store) Restore(snapshot *model.Snapshot) error {
	if snapshot == nil {
		snapshot = model.NewSnapshot()
	}
	if err := validateSnapshot(snapshot, s.limits); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients.load(snapshot.Patients, snapshot.Counters.NextPatientID)
	s.diseases.load(snapshot.Diseases, snapshot.Counters.NextDiseaseID)
	s.doctors.load(snapshot.Doctors, snapshot.Counters.NextDoctorID)
	s.appointments.load(snapshot.Appointments, snapshot.Counters.NextAppointmentID)
	s.version++
	return nil
}

func validateSnapshot(snap *model.Snapshot, limits model.Limits) error {
	checks := []struct {
		resource string
		count    int
		max      int
		nextID   int
		ids      []int
	}{
		{"patient", len(snap.Patients), limits.Patients, snap.Counters.NextPatientID, idsOf(snap.Patients, func(p model.Patient) int { return p.ID })},
		{"disease", len(snap.Diseases), limits.Diseases, snap.Counters.NextDiseaseID, idsOf(snap.Diseases, func(d model.Disease) int { return d.ID })},
		{"doctor", len(snap.Doctors), limits.Doctors, snap.Counters.NextDoctorID, idsOf(snap.Doctors, func(d model.Doctor) int { return d.ID })},
		{"appointment", len(snap.Appointments), limits.Appointments, snap.Counters.NextAppointmentID, idsOf(snap.Appointments, func(a model.Appointment) int { return a.ID })},
	}

	for _, c := range checks {
		if c.count > c.max {
			return apperrors.NewCapacityExceeded(c.resource, c.max)
		}
		if c.nextID < 1 {
			return apperrors.NewCorruptData(fmt.Sprintf("next %s ID %d is below 1", c.resource, c.nextID), nil)
		}
		seen := make(map[int]struct{}, len(c.ids))
		for _, id := range c.ids {
			if id < 1 || id >= c.nextID {
				return apperrors.NewCorruptData(fmt.Sprintf("%s ID %d outside [1, %d)", c.resource, id, c.nextID), nil)
			}
			if _, dup := seen[id]; dup {
				return apperrors.NewCorruptData(fmt.Sprintf("duplicate %s ID %d", c.resource, id), nil)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func idsOf[T any](items []T, id func(T) int) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
