package file

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/logger"
	"github.com/jwalitptl/hms/pkg/metrics"
)

// Persister binds a data file to a store.
type Persister struct {
	path    string
	store   repository.SnapshotStore
	metrics *metrics.Metrics
	logger  *logger.Logger

	// mu serializes writers of the file; saved is the store version last
	// known to match it.
	mu    sync.Mutex
	saved uint64
	now   func() time.Time
}

func NewPersister(path string, store repository.SnapshotStore, m *metrics.Metrics, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	return &Persister{
		path:    path,
		store:   store,
		metrics: m,
		logger:  log.With("persistence"),
		now:     time.Now,
	}
}

func (p *Persister) Path() string {
	return p.path
}

// Load replaces the store's contents with the data file and returns the
// loaded counts. On any error the store is left as it was.
func (p *Persister) Load(ctx context.Context) (model.Counts, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	counts, err := p.load(ctx)
	p.metrics.ObservePersistence("load", start, err)
	if err != nil {
		p.logger.Error(err, "failed to load data file", "path", p.path)
		return model.Counts{}, err
	}
	p.metrics.SetRecords(counts.Patients, counts.Doctors, counts.Diseases, counts.Appointments)
	p.logger.Info("data loaded", "path", p.path,
		"patients", counts.Patients, "diseases", counts.Diseases,
		"doctors", counts.Doctors, "appointments", counts.Appointments)
	return counts, nil
}

func (p *Persister) load(ctx context.Context) (model.Counts, error) {
	if err := ctx.Err(); err != nil {
		return model.Counts{}, err
	}
	snap, err := Load(p.path)
	if err != nil {
		return model.Counts{}, err
	}
	if err := p.store.Restore(snap); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCorruptData) {
			return model.Counts{}, err
		}
		// A file holding more records than the configured limits allow
		// cannot be loaded either.
		return model.Counts{}, apperrors.NewCorruptData(fmt.Sprintf("%s does not fit the configured limits", p.path), err)
	}
	p.saved = p.store.Version()
	return snap.Counts(), nil
}

// Save writes the whole store to the data file.
func (p *Persister) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save(ctx)
}

// SaveIfChanged saves only when the store has been mutated since the last
// load or save. It reports whether a write happened.
func (p *Persister) SaveIfChanged(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store.Version() == p.saved {
		return false, nil
	}
	if err := p.save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Persister) save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	version := p.store.Version()
	snap := p.store.Snapshot()
	err := Save(p.path, snap)
	p.metrics.ObservePersistence("save", start, err)
	if err != nil {
		p.logger.Error(err, "failed to save data file", "path", p.path)
		return err
	}

	// A mutation between Version and Snapshot leaves saved behind the
	// store, so the next SaveIfChanged writes again.
	p.saved = version
	counts := snap.Counts()
	p.metrics.SetRecords(counts.Patients, counts.Doctors, counts.Diseases, counts.Appointments)
	p.logger.Debug("data saved", "path", p.path, "version", version)
	return nil
}

// Quarantine moves the data file aside so a later save cannot overwrite
// it. It returns the new location.
func (p *Persister) Quarantine() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dest := fmt.Sprintf("%s.corrupt-%d", p.path, p.now().Unix())
	if err := os.Rename(p.path, dest); err != nil {
		return "", apperrors.NewIOFailure("failed to move corrupt data file aside", err)
	}
	p.logger.Warn("corrupt data file moved aside", "path", p.path, "moved_to", dest)
	return dest, nil
}
