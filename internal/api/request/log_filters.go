package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

// Import history page size bounds.
const (
	DefaultImportLogLimit = 50
	MaxImportLogLimit     = 200
)

// ParseImportLogFilters extracts and validates import history filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - kind: comma-separated receipt kinds (dividend, domestic_stock, mutual_fund)
//   - status: comma-separated import statuses (succeeded, failed, stale)
//   - start_date/end_date: YYYY-MM-DD or RFC3339; a bare end date includes that whole day
//   - sort_dir: "asc" or "desc" (defaults to "desc")
//   - limit: between 1 and 200 (defaults to 50)
//
//nolint:gocyclo // Sequential validation of independent parameters
func ParseImportLogFilters(kindParam, statusParam, startDateParam, endDateParam, sortDirParam, limitParam string) (*model.ImportLogFilters, error) {
	filters := &model.ImportLogFilters{
		SortDir: "desc",
		Limit:   DefaultImportLogLimit,
	}

	for _, kind := range splitParam(kindParam) {
		k, err := receipt.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("invalid kind: %s", kind)
		}
		filters.Kinds = append(filters.Kinds, string(k))
	}

	for _, status := range splitParam(statusParam) {
		if !model.ValidImportStatuses[status] {
			return nil, fmt.Errorf("invalid status: %s", status)
		}
		filters.Statuses = append(filters.Statuses, status)
	}

	if startDateParam != "" {
		start, _, err := parseFilterTime(startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date format: %w", err)
		}
		filters.StartDate = &start
	}

	if endDateParam != "" {
		end, dateOnly, err := parseFilterTime(endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date format: %w", err)
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filters.EndDate = &end
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("start_date must not be after end_date")
	}

	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != "asc" && sortDir != "desc" {
			return nil, fmt.Errorf("invalid sort_dir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	}

	if limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: must be a number")
		}
		if limit < 1 || limit > MaxImportLogLimit {
			return nil, fmt.Errorf("invalid limit: must be between 1 and %d", MaxImportLogLimit)
		}
		filters.Limit = limit
	}

	return filters, nil
}

func splitParam(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFilterTime accepts YYYY-MM-DD and RFC3339. The bool reports a date without time.
func parseFilterTime(str string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
