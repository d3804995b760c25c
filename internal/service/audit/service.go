package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/pkg/logger"
)

const defaultKeep = 256

// Auditor is what the record services depend on.
type Auditor interface {
	Log(ctx context.Context, action, entityType string, entityID int, opts *LogOptions) error
}

type LogOptions struct {
	Changes  interface{}
	Metadata interface{}
}

// Service writes each audit entry to the structured log and keeps the most
// recent ones in memory.
type Service struct {
	logger *logger.Logger
	keep   int

	mu     sync.Mutex
	recent []model.AuditLog
	now    func() time.Time
}

func NewService(log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		logger: log.With("audit"),
		keep:   defaultKeep,
		now:    time.Now,
	}
}

// Log creates an audit log entry
func (s *Service) Log(ctx context.Context, action, entityType string, entityID int, opts *LogOptions) error {
	var changes, metadata json.RawMessage
	var err error

	if opts != nil {
		if opts.Changes != nil {
			changes, err = json.Marshal(opts.Changes)
			if err != nil {
				return fmt.Errorf("failed to marshal audit changes: %w", err)
			}
		}
		if opts.Metadata != nil {
			metadata, err = json.Marshal(opts.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal audit metadata: %w", err)
			}
		}
	}

	entry := model.AuditLog{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		Metadata:   metadata,
		CreatedAt:  s.now(),
	}

	event := s.logger.Zerolog().Debug().
		Str("audit_id", entry.ID.String()).
		Str("action", action).
		Str("entity_type", entityType).
		Int("entity_id", entityID)
	if changes != nil {
		event = event.RawJSON("changes", changes)
	}
	if metadata != nil {
		event = event.RawJSON("metadata", metadata)
	}
	event.Msg("audit")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, entry)
	if len(s.recent) > s.keep {
		s.recent = s.recent[len(s.recent)-s.keep:]
	}
	return nil
}

// Recent returns the retained entries, oldest first.
func (s *Service) Recent() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AuditLog, len(s.recent))
	copy(out, s.recent)
	return out
}
