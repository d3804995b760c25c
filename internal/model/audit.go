package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   int             `json:"entity_id"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

const (
	// Action types
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionCancel = "cancel"
	AuditActionSort   = "sort"
	AuditActionSave   = "save"
	AuditActionLoad   = "load"

	// Entity types
	AuditEntityPatient     = "patient"
	AuditEntityDoctor      = "doctor"
	AuditEntityDisease     = "disease"
	AuditEntityAppointment = "appointment"
	AuditEntityDatabase    = "database"
)
