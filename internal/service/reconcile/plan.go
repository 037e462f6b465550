package reconcile

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/matching"
)

// resultNamespace seeds deterministic snapshot IDs.
var resultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:ongoing-monitor:subject-result"))

// MutationKind says how a mutation touches the snapshot store.
type MutationKind int

const (
	MutationInsert MutationKind = iota + 1
	MutationUpdate
)

func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationUpdate:
		return "update"
	}
	return "unknown"
}

// Mutation is one snapshot write derived from one entry.
type Mutation struct {
	Kind   MutationKind
	Entry  domain.MonitoringEntry
	Result domain.SubjectResult
}

// Anomaly is an entry that will not be applied.
type Anomaly struct {
	Kind  domain.AnomalyKind
	Key   domain.ResultKey
	Entry domain.MonitoringEntry
}

// Plan is the outcome of folding one record into the current snapshots.
type Plan struct {
	Mutations []Mutation
	Anomalies []Anomaly
}

// Keys returns the distinct snapshot keys a record touches, sorted.
func Keys(rec domain.MonitoringRecord) []domain.ResultKey {
	keys := make([]domain.ResultKey, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		keys = append(keys, domain.ResultKey{SubjectID: rec.SubjectID, SourceRecordID: e.SourceRecordID})
	}
	slices.SortFunc(keys, func(a, b domain.ResultKey) int {
		if c := bytes.Compare(a.SubjectID[:], b.SubjectID[:]); c != 0 {
			return c
		}
		switch {
		case a.SourceRecordID < b.SourceRecordID:
			return -1
		case a.SourceRecordID > b.SourceRecordID:
			return 1
		}
		return 0
	})
	return slices.Compact(keys)
}

// BuildPlan folds the entries of rec, in event creation order, into
// snapshots and returns the writes to perform. snapshots must hold the
// current snapshot for every key the record touches; it is not modified.
//
// ADD without a snapshot inserts one from the entry payload. MOD with a
// snapshot overwrites its result with the entry payload. Everything else is
// an anomaly: ADD over an existing snapshot, MOD without one, an entry the
// snapshot already reflects (same or older event), an entry without payload,
// or an unknown action. Later entries see the effect of earlier ones, so
// ADD then MOD in one record yields an insert followed by an update.
func BuildPlan(rec domain.MonitoringRecord, snapshots map[domain.ResultKey]domain.SubjectResult, now time.Time) Plan {
	entries := slices.Clone(rec.Entries)
	matching.SortEntries(entries)

	view := make(map[domain.ResultKey]domain.SubjectResult, len(snapshots))
	for k, v := range snapshots {
		view[k] = v
	}

	var plan Plan
	for _, e := range entries {
		key := domain.ResultKey{SubjectID: rec.SubjectID, SourceRecordID: e.SourceRecordID}
		snap, exists := view[key]

		kind, ok := classify(e, snap, exists)
		if !ok {
			plan.Anomalies = append(plan.Anomalies, Anomaly{Kind: kind, Key: key, Entry: e})
			continue
		}

		var m Mutation
		if exists {
			next := snap
			next.Category = e.Category
			next.Result = e.Payload
			next.LastEventID = e.EventID
			next.LastEventAt = e.EventCreatedAt
			next.UpdatedAt = now
			m = Mutation{Kind: MutationUpdate, Entry: e, Result: next}
		} else {
			m = Mutation{Kind: MutationInsert, Entry: e, Result: domain.SubjectResult{
				ID:             uuid.NewSHA1(resultNamespace, []byte(key.String())),
				SubjectID:      key.SubjectID,
				SourceRecordID: key.SourceRecordID,
				Category:       e.Category,
				Result:         e.Payload,
				LastEventID:    e.EventID,
				LastEventAt:    e.EventCreatedAt,
				CreatedAt:      now,
				UpdatedAt:      now,
			}}
		}

		plan.Mutations = append(plan.Mutations, m)
		view[key] = m.Result
	}

	return plan
}

func classify(e domain.MonitoringEntry, snap domain.SubjectResult, exists bool) (domain.AnomalyKind, bool) {
	if !e.Action.IsValid() {
		return domain.AnomalyUnknownAction, false
	}
	if exists && e.EventID == snap.LastEventID {
		return domain.AnomalyStaleEvent, false
	}
	if len(bytes.TrimSpace(e.Payload)) == 0 || bytes.Equal(bytes.TrimSpace(e.Payload), []byte("null")) {
		return domain.AnomalyMissingPayload, false
	}

	switch e.Action {
	case domain.ActionAdd:
		if exists {
			return domain.AnomalyDuplicateAdd, false
		}
	case domain.ActionMod:
		if !exists {
			return domain.AnomalyModWithoutAdd, false
		}
		if !after(e, snap) {
			return domain.AnomalyStaleEvent, false
		}
	}
	return "", true
}

// after reports whether e was created after the event snap last applied,
// ordering by creation time then event ID.
func after(e domain.MonitoringEntry, snap domain.SubjectResult) bool {
	if c := e.EventCreatedAt.Compare(snap.LastEventAt); c != 0 {
		return c > 0
	}
	return bytes.Compare(e.EventID[:], snap.LastEventID[:]) > 0
}
