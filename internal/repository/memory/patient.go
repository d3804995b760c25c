package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
	"github.com/jwalitptl/hms/pkg/textutil"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(_ context.Context, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created, err := r.store.patients.add(*patient)
	if err != nil {
		return err
	}
	r.store.version++
	*patient = created
	return nil
}

func (r *patientRepository) Get(_ context.Context, id int) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	patient, err := r.store.patients.get(id)
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(_ context.Context, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.patients.replace(*patient); err != nil {
		return err
	}
	r.store.version++
	return nil
}

func (r *patientRepository) Delete(_ context.Context, id int) (*model.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed, err := r.store.patients.remove(id)
	if err != nil {
		return nil, err
	}
	r.store.version++
	return &removed, nil
}

func (r *patientRepository) List(_ context.Context) ([]*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.patients.all(), nil
}

// FindByName is a case-insensitive exact match, not a substring search.
func (r *patientRepository) FindByName(_ context.Context, name string) ([]*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	folded := textutil.Fold(name)
	return r.store.patients.filter(func(p *model.Patient) bool {
		return textutil.Fold(p.Name) == folded
	}), nil
}

// SortByName reorders patients by case-folded name. Ties keep their
// existing relative order.
func (r *patientRepository) SortByName(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.patients.items
	if len(items) < 2 {
		return len(items), nil
	}

	keys := make(map[int]string, len(items))
	for _, p := range items {
		keys[p.ID] = textutil.Fold(p.Name)
	}
	slices.SortStableFunc(items, func(a, b model.Patient) int {
		return strings.Compare(keys[a.ID], keys[b.ID])
	})
	r.store.version++
	return len(items), nil
}
