package domain

import "time"

// EventFilter narrows the pending change events fetched for a matching pass.
type EventFilter struct {
	Categories    []Category
	CreatedBefore *time.Time
	Limit         int
}

// RecordFilter narrows the monitoring records fetched for reconciliation.
type RecordFilter struct {
	Status RecordStatus
	Limit  int
}
