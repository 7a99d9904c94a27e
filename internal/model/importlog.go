package model

import "time"

// Import statuses
const (
	ImportSucceeded = "succeeded"
	ImportFailed    = "failed"
	ImportStale     = "stale"
)

// ImportLog records one statement upload and its outcome.
type ImportLog struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	Kind         string    `json:"kind"`
	Generation   uint64    `json:"generation"`
	FileName     string    `json:"fileName"`
	Status       string    `json:"status"`
	RowCount     int       `json:"rowCount"`
	GroupedCount int       `json:"groupedCount"`
	DroppedCount int       `json:"droppedCount"`
	FieldErrors  int       `json:"fieldErrors"`
	Error        string    `json:"error,omitempty"`
	ImportedAt   time.Time `json:"importedAt"`
}

// ValidImportStatuses lists the statuses an import log row can carry.
var ValidImportStatuses = map[string]bool{
	ImportSucceeded: true,
	ImportFailed:    true,
	ImportStale:     true,
}

// ImportLogFilters narrows an import history query. Zero values mean no filter.
type ImportLogFilters struct {
	Kinds     []string
	Statuses  []string
	StartDate *time.Time
	EndDate   *time.Time
	SortDir   string
	Limit     int
}
