package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/model"
)

// SessionRepository provides data access methods for the session table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the provided database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// InsertSession stores a new session. authCode is the encrypted token or nil.
func (r *SessionRepository) InsertSession(s model.Session, authCode []byte) error {
	query := `
		INSERT INTO session (id, name, email, auth_code, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var code any
	if authCode != nil {
		code = string(authCode)
	}

	_, err := r.db.Exec(query, s.ID, s.Name, s.Email, code, s.CreatedAt.UTC(), s.LastSeenAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession returns the session and its encrypted auth code (nil when none was stored).
func (r *SessionRepository) GetSession(id string) (model.Session, []byte, error) {
	query := `
		SELECT id, name, email, auth_code, created_at, last_seen_at
		FROM session
		WHERE id = ?
	`
	var s model.Session
	var code sql.NullString

	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.Email, &code, &s.CreatedAt, &s.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, nil, fmt.Errorf("failed to query session: %w", err)
	}

	var authCode []byte
	if code.Valid {
		authCode = []byte(code.String)
		s.HasAuthCode = true
	}
	return s, authCode, nil
}

// TouchSession updates last_seen_at.
func (r *SessionRepository) TouchSession(id string, at time.Time) error {
	res, err := r.db.Exec(`UPDATE session SET last_seen_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// DeleteSessionsIdleSince removes sessions last seen before cutoff and returns their IDs.
// Import log rows are removed by the foreign key cascade.
func (r *SessionRepository) DeleteSessionsIdleSince(cutoff time.Time) ([]string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	rows, err := tx.Query(`SELECT id FROM session WHERE last_seen_at < ?`, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query idle sessions: %w", err)
	}

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating session table: %w", err)
	}
	rows.Close()

	if _, err := tx.Exec(`DELETE FROM session WHERE last_seen_at < ?`, cutoff.UTC()); err != nil {
		return nil, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session purge: %w", err)
	}
	return ids, nil
}
