package memory

import (
	"context"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (r *appointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created, err := r.store.appointments.add(*appointment)
	if err != nil {
		return err
	}
	r.store.version++
	*appointment = created
	return nil
}

func (r *appointmentRepository) Get(_ context.Context, id int) (*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	appointment, err := r.store.appointments.get(id)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(_ context.Context, id int) (*model.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed, err := r.store.appointments.remove(id)
	if err != nil {
		return nil, err
	}
	r.store.version++
	return &removed, nil
}

func (r *appointmentRepository) List(_ context.Context) ([]*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.appointments.all(), nil
}
