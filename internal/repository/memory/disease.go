package memory

import (
	"context"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
)

type diseaseRepository struct {
	store *Store
}

func NewDiseaseRepository(store *Store) repository.DiseaseRepository {
	return &diseaseRepository{store: store}
}

func (r *diseaseRepository) Create(_ context.Context, disease *model.Disease) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created, err := r.store.diseases.add(*disease)
	if err != nil {
		return err
	}
	r.store.version++
	*disease = created
	return nil
}

func (r *diseaseRepository) Get(_ context.Context, id int) (*model.Disease, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	disease, err := r.store.diseases.get(id)
	if err != nil {
		return nil, err
	}
	return &disease, nil
}

func (r *diseaseRepository) List(_ context.Context) ([]*model.Disease, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.diseases.all(), nil
}
