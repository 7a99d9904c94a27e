package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/shoken-receipts-backend/internal/model"
)

// SessionBuilder provides a fluent interface for inserting test sessions directly.
//
// Example usage:
//
//	// Simple creation with defaults
//	session := testutil.NewSession().Build(t, db)
//
//	// Session idle for two days
//	session := testutil.NewSession().
//	    WithName("Hanako").
//	    LastSeen(time.Now().Add(-48 * time.Hour)).
//	    Build(t, db)
type SessionBuilder struct {
	ID         string
	Name       string
	Email      string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSession creates a SessionBuilder with sensible defaults.
func NewSession() *SessionBuilder {
	now := time.Now().UTC()
	return &SessionBuilder{
		ID:         MakeID(),
		Name:       "Test User",
		Email:      "test@example.jp",
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

// WithName sets a custom name.
func (b *SessionBuilder) WithName(name string) *SessionBuilder {
	b.Name = name
	return b
}

// LastSeen sets last_seen_at.
func (b *SessionBuilder) LastSeen(at time.Time) *SessionBuilder {
	b.LastSeenAt = at.UTC()
	if b.CreatedAt.After(b.LastSeenAt) {
		b.CreatedAt = b.LastSeenAt
	}
	return b
}

// Build creates the session in the database and returns it.
func (b *SessionBuilder) Build(t *testing.T, db *sql.DB) model.Session {
	t.Helper()

	query := `
		INSERT INTO session (id, name, email, auth_code, created_at, last_seen_at)
		VALUES (?, ?, ?, NULL, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Email, b.CreatedAt, b.LastSeenAt)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return model.Session{
		ID:         b.ID,
		Name:       b.Name,
		Email:      b.Email,
		CreatedAt:  b.CreatedAt,
		LastSeenAt: b.LastSeenAt,
	}
}

// CreateSession inserts a session with default values.
func CreateSession(t *testing.T, db *sql.DB) model.Session {
	t.Helper()
	return NewSession().Build(t, db)
}

// Statement headers as exported by the brokerage.
const (
	DomesticStockHeader = "約定日,受渡日,銘柄コード,銘柄名,口座,信用区分,取引,数量[株],売却/決済単価[円],売却/決済額[円],平均取得価額[円],実現損益[円]"
	DividendHeader      = "入金日,商品,口座,銘柄コード,銘柄,受取通貨,単価[円/現地通貨],数量[株/口],配当・分配金合計（税引前）[円/現地通貨],税額合計[円/現地通貨],受取金額[円/現地通貨]"
	MutualFundHeader    = "約定日,受渡日,ファンド名,分配金,口座,取引,数量[口],為替レート,解約単価,解約金額,平均取得価額,実現損益"
)

// StatementCSV joins a header and rows into statement text with CRLF line endings.
//
// Example usage:
//
//	text := testutil.StatementCSV(testutil.DomesticStockHeader,
//	    `2024/03/15,2024/03/18,1301,極洋,特定,,,100,"1,500.0","150,000","1,200.0","30,000"`,
//	)
func StatementCSV(header string, rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\r\n") + "\r\n"
}

// DomesticStockStatement returns a Shift_JIS encoded realized profit/loss statement.
func DomesticStockStatement(t *testing.T, rows ...string) []byte {
	t.Helper()
	return ShiftJIS(t, StatementCSV(DomesticStockHeader, rows...))
}
