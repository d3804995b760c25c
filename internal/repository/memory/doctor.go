package memory

import (
	"context"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(_ context.Context, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created, err := r.store.doctors.add(*doctor)
	if err != nil {
		return err
	}
	r.store.version++
	*doctor = created
	return nil
}

func (r *doctorRepository) Get(_ context.Context, id int) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doctor, err := r.store.doctors.get(id)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(_ context.Context) ([]*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.doctors.all(), nil
}
