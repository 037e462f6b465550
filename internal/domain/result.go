package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResultKey identifies a snapshot: one per (subject, source record) pair.
type ResultKey struct {
	SubjectID      uuid.UUID
	SourceRecordID string
}

// String renders the key in a stable form suitable for lock names.
func (k ResultKey) String() string {
	return k.SubjectID.String() + "/" + k.SourceRecordID
}

// SubjectResult is the latest-known state of a source record as it pertains
// to a subject. LastEventID and LastEventAt identify the change event applied last.
type SubjectResult struct {
	ID             uuid.UUID
	SubjectID      uuid.UUID
	SourceRecordID string
	Category       Category
	Result         json.RawMessage
	LastEventID    uuid.UUID
	LastEventAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Key returns the composite identity of the snapshot.
func (r SubjectResult) Key() ResultKey {
	return ResultKey{SubjectID: r.SubjectID, SourceRecordID: r.SourceRecordID}
}
