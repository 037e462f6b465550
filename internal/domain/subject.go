package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Subject is a watch-list entry flagged for ongoing monitoring.
// It is owned by an upstream system and read-only for the engine.
type Subject struct {
	ID                uuid.UUID
	NameEN            string
	NameZH            string
	SearchKey         json.RawMessage
	OngoingMonitoring bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Searchable reports whether at least one of the subject's names is non-empty
// after normalization.
func (s Subject) Searchable() bool {
	return NormalizeName(s.NameEN) != "" || NormalizeName(s.NameZH) != ""
}
