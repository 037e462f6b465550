package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MonitoringEntry is one matched change event inside a monitoring record.
type MonitoringEntry struct {
	EventID        uuid.UUID       `json:"eventId"`
	SourceRecordID string          `json:"sourceRecordId"`
	Category       Category        `json:"category"`
	Action         Action          `json:"action"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Delta          []FieldChange   `json:"delta,omitempty"`
	Score          int             `json:"score"`
	EventCreatedAt time.Time       `json:"eventCreatedAt"`
}

// MonitoringRecord bundles the change events matched to one subject in a pass.
// Entries are ordered by event creation time, then event ID.
type MonitoringRecord struct {
	ID         uuid.UUID
	SubjectID  uuid.UUID
	SearchKey  json.RawMessage
	Status     RecordStatus
	Attributes map[string]any
	Entries    []MonitoringEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EventIDs returns the IDs of all entries in record order.
func (r MonitoringRecord) EventIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.EventID
	}
	return ids
}
