package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/shoken-receipts-backend/internal/model"
)

// ImportRepository provides data access methods for the import_log table.
type ImportRepository struct {
	db *sql.DB
}

// NewImportRepository creates a new ImportRepository with the provided database connection.
func NewImportRepository(db *sql.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// InsertImportLog stores one import outcome.
func (r *ImportRepository) InsertImportLog(l model.ImportLog) error {
	query := `
		INSERT INTO import_log (
			id, session_id, kind, generation, file_name, status,
			row_count, grouped_count, dropped_count, field_errors, error, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var errText any
	if l.Error != "" {
		errText = l.Error
	}

	_, err := r.db.Exec(query,
		l.ID, l.SessionID, l.Kind, int64(l.Generation), l.FileName, l.Status,
		l.RowCount, l.GroupedCount, l.DroppedCount, l.FieldErrors, errText, l.ImportedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}
	return nil
}

// GetImportLogs returns a session's imports matching filters, newest first unless filters say otherwise.
// A nil filters value returns the whole history.
// Returns an empty slice if nothing matches.
func (r *ImportRepository) GetImportLogs(sessionID string, filters *model.ImportLogFilters) ([]model.ImportLog, error) {
	if filters == nil {
		filters = &model.ImportLogFilters{}
	}

	where := []string{"session_id = ?"}
	args := []any{sessionID}

	if len(filters.Kinds) > 0 {
		where = append(where, "kind IN ("+placeholders(len(filters.Kinds))+")")
		for _, k := range filters.Kinds {
			args = append(args, k)
		}
	}
	if len(filters.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(filters.Statuses))+")")
		for _, st := range filters.Statuses {
			args = append(args, st)
		}
	}
	if filters.StartDate != nil {
		where = append(where, "imported_at >= ?")
		args = append(args, filters.StartDate.UTC())
	}
	if filters.EndDate != nil {
		where = append(where, "imported_at <= ?")
		args = append(args, filters.EndDate.UTC())
	}

	dir := "DESC"
	if filters.SortDir == "asc" {
		dir = "ASC"
	}

	query := `
		SELECT id, session_id, kind, generation, file_name, status,
			row_count, grouped_count, dropped_count, field_errors, error, imported_at
		FROM import_log
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY imported_at ` + dir + `, generation ` + dir
	if filters.Limit > 0 {
		query += "\n\t\tLIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_log table: %w", err)
	}
	defer rows.Close()

	logs := []model.ImportLog{}
	for rows.Next() {
		var l model.ImportLog
		var generation int64
		var errText sql.NullString

		err := rows.Scan(
			&l.ID,
			&l.SessionID,
			&l.Kind,
			&generation,
			&l.FileName,
			&l.Status,
			&l.RowCount,
			&l.GroupedCount,
			&l.DroppedCount,
			&l.FieldErrors,
			&errText,
			&l.ImportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import_log table results: %w", err)
		}
		l.Generation = uint64(generation)
		l.Error = errText.String
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import_log table: %w", err)
	}

	return logs, nil
}
