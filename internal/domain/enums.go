package domain

// Category identifies the kind of source record a change event describes.
type Category string

const (
	CategoryAdverseMedia Category = "adverse_media"
	CategoryJudgment     Category = "judgment"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryAdverseMedia, CategoryJudgment:
		return true
	}
	return false
}

// Action is the kind of change recorded against a source record.
type Action string

const (
	ActionAdd Action = "ADD"
	ActionMod Action = "MOD"
)

func (a Action) String() string { return string(a) }

func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionMod:
		return true
	}
	return false
}

// EventStatus tracks whether a change event has been consumed by a matching pass.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) String() string { return string(s) }

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusPending, EventStatusCompleted:
		return true
	}
	return false
}

// RecordStatus tracks whether a monitoring record has been reconciled.
type RecordStatus string

const (
	RecordStatusTodo RecordStatus = "todo"
	RecordStatusDone RecordStatus = "done"
)

func (s RecordStatus) String() string { return string(s) }

func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusTodo, RecordStatusDone:
		return true
	}
	return false
}

// AnomalyKind classifies a monitoring entry that reconciliation refused to apply.
type AnomalyKind string

const (
	AnomalyDuplicateAdd   AnomalyKind = "duplicate_add"
	AnomalyModWithoutAdd  AnomalyKind = "mod_without_add"
	AnomalyStaleEvent     AnomalyKind = "stale_event"
	AnomalyMissingPayload AnomalyKind = "missing_payload"
	AnomalyUnknownAction  AnomalyKind = "unknown_action"
)

func (k AnomalyKind) String() string { return string(k) }

func (k AnomalyKind) IsValid() bool {
	switch k {
	case AnomalyDuplicateAdd, AnomalyModWithoutAdd, AnomalyStaleEvent,
		AnomalyMissingPayload, AnomalyUnknownAction:
		return true
	}
	return false
}
