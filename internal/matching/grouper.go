package matching

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// recordNamespace seeds deterministic monitoring record IDs.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:ongoing-monitor:monitoring-record"))

// GroupOptions carries the non-computed parts of every emitted record.
type GroupOptions struct {
	// Attributes is the template skeleton copied into each record.
	Attributes map[string]any
	Now        time.Time
}

// Group builds one todo MonitoringRecord per subject with at least one
// matched event.
//
// An event that matched several subjects is assigned to the pair with the
// highest score; ties go to the lowest subject ID. Records are sorted by
// subject ID and entries by event creation time, then event ID, so the
// output never depends on matcher scheduling. Record IDs are derived from
// the subject ID and the entry event IDs, so identical inputs yield
// identical records apart from timestamps.
//
// Pairs referring to subjects or events not present in the inputs are ignored.
func Group(pairs []MatchedPair, subjects []domain.Subject, events []domain.ChangeEvent, opts GroupOptions) []domain.MonitoringRecord {
	subjectByID := make(map[uuid.UUID]domain.Subject, len(subjects))
	for _, s := range subjects {
		subjectByID[s.ID] = s
	}
	eventByID := make(map[uuid.UUID]domain.ChangeEvent, len(events))
	for _, e := range events {
		eventByID[e.ID] = e
	}

	assigned := make(map[uuid.UUID]MatchedPair)
	for _, p := range pairs {
		if _, ok := subjectByID[p.SubjectID]; !ok {
			continue
		}
		if _, ok := eventByID[p.EventID]; !ok {
			continue
		}
		cur, ok := assigned[p.EventID]
		if !ok || preferPair(p, cur) {
			assigned[p.EventID] = p
		}
	}

	bySubject := make(map[uuid.UUID][]MatchedPair)
	for _, p := range assigned {
		bySubject[p.SubjectID] = append(bySubject[p.SubjectID], p)
	}

	subjectIDs := slices.Collect(maps.Keys(bySubject))
	slices.SortFunc(subjectIDs, compareUUID)

	records := make([]domain.MonitoringRecord, 0, len(subjectIDs))
	for _, sid := range subjectIDs {
		subject := subjectByID[sid]

		entries := make([]domain.MonitoringEntry, 0, len(bySubject[sid]))
		for _, p := range bySubject[sid] {
			e := eventByID[p.EventID]
			entries = append(entries, domain.MonitoringEntry{
				EventID:        e.ID,
				SourceRecordID: e.SourceRecordID,
				Category:       e.Category,
				Action:         e.Action,
				Payload:        e.Payload,
				Delta:          e.Delta,
				Score:          p.Score,
				EventCreatedAt: e.CreatedAt,
			})
		}
		SortEntries(entries)

		rec := domain.MonitoringRecord{
			SubjectID:  sid,
			SearchKey:  subject.SearchKey,
			Status:     domain.RecordStatusTodo,
			Attributes: maps.Clone(opts.Attributes),
			Entries:    entries,
			CreatedAt:  opts.Now,
			UpdatedAt:  opts.Now,
		}
		rec.ID = recordID(sid, rec.EventIDs())
		records = append(records, rec)
	}

	return records
}

// ConsumedEvents returns the IDs of every event that appears in records.
func ConsumedEvents(records []domain.MonitoringRecord) []uuid.UUID {
	var ids []uuid.UUID
	for _, r := range records {
		ids = append(ids, r.EventIDs()...)
	}
	return ids
}

// SortEntries orders entries by event creation time, then event ID.
func SortEntries(entries []domain.MonitoringEntry) {
	slices.SortStableFunc(entries, func(a, b domain.MonitoringEntry) int {
		if c := a.EventCreatedAt.Compare(b.EventCreatedAt); c != 0 {
			return c
		}
		return compareUUID(a.EventID, b.EventID)
	})
}

func preferPair(candidate, current MatchedPair) bool {
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	return compareUUID(candidate.SubjectID, current.SubjectID) < 0
}

func compareUUID(a, b uuid.UUID) int {
	return strings.Compare(a.String(), b.String())
}

func recordID(subjectID uuid.UUID, eventIDs []uuid.UUID) uuid.UUID {
	name := make([]byte, 0, 16*(len(eventIDs)+1))
	name = append(name, subjectID[:]...)
	for _, id := range eventIDs {
		name = append(name, id[:]...)
	}
	return uuid.NewSHA1(recordNamespace, name)
}
