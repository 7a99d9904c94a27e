package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/japanese"

	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/repository"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
)

// DefaultSessionTTL is the idle lifetime used by test session services.
const DefaultSessionTTL = 24 * time.Hour

// TestKey returns a freshly generated fernet key.
func TestKey(t *testing.T) *fernet.Key {
	t.Helper()

	var k fernet.Key
	if err := k.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return &k
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

func NewTestSessionService(t *testing.T, db *sql.DB) *service.SessionService {
	t.Helper()
	return service.NewSessionService(repository.NewSessionRepository(db), TestKey(t), DefaultSessionTTL)
}

// NewTestReceiptService builds a ReceiptService on top of its own SessionService.
func NewTestReceiptService(t *testing.T, db *sql.DB) (*service.ReceiptService, *service.SessionService) {
	t.Helper()

	sessions := NewTestSessionService(t, db)
	receipts := service.NewReceiptService(
		sessions,
		repository.NewImportRepository(db),
		metrics.New(),
		logger.Nop(),
	)
	return receipts, sessions
}

func NewTestStockService(t *testing.T, client *MockStockClient) *service.StockService {
	t.Helper()
	return service.NewStockService(client)
}

// MakeID generates a new UUID string for testing.
func MakeID() string {
	return uuid.New().String()
}

// ShiftJIS encodes a UTF-8 fixture into the encoding brokerage exports use.
//
// Example usage:
//
//	data := testutil.ShiftJIS(t, "約定日,受渡日\n2024/03/15,2024/03/18\n")
func ShiftJIS(t *testing.T, s string) []byte {
	t.Helper()

	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("Failed to encode Shift_JIS fixture: %v", err)
	}
	return b
}
