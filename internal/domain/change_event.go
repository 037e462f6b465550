package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldChange is one field-level difference carried by a MOD event.
type FieldChange struct {
	Field string          `json:"field"`
	Old   json.RawMessage `json:"old,omitempty"`
	New   json.RawMessage `json:"new,omitempty"`
}

// ChangeEvent records an addition or modification of an external source record.
type ChangeEvent struct {
	ID             uuid.UUID
	Category       Category
	Action         Action
	SourceRecordID string
	Payload        json.RawMessage
	Delta          []FieldChange
	Status         EventStatus
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Validate checks the fields an upstream producer must always fill.
func (e ChangeEvent) Validate() error {
	var errs []FieldError
	if e.ID == uuid.Nil {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if !e.Category.IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "unknown category"})
	}
	if !e.Action.IsValid() {
		errs = append(errs, FieldError{Field: "action", Message: "must be ADD or MOD"})
	}
	if e.SourceRecordID == "" {
		errs = append(errs, FieldError{Field: "source_record_id", Message: "required"})
	}
	if e.Action == ActionAdd && len(e.Delta) > 0 {
		errs = append(errs, FieldError{Field: "delta", Message: "only allowed on MOD"})
	}
	if e.Status != "" && !e.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
