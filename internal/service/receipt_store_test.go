package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/text/encoding/japanese"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/request"
	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/database"
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
	"github.com/ndewijer/shoken-receipts-backend/internal/repository"
)

func TestReceiptStore(t *testing.T) {
	key := storeKey{sessionID: "s1", kind: receipt.KindDividend}

	t.Run("begin cancels the previous generation", func(t *testing.T) {
		s := newReceiptStore()

		ctx1, gen1, done1 := s.begin(context.Background(), key)
		defer done1()
		_, gen2, done2 := s.begin(context.Background(), key)
		defer done2()

		if gen2 <= gen1 {
			t.Errorf("Expected increasing generations, got %d then %d", gen1, gen2)
		}
		if ctx1.Err() == nil {
			t.Error("Expected first context to be cancelled")
		}
		if s.commit(key, gen1, &ImportResult{}) {
			t.Error("Expected stale generation commit to fail")
		}
		if !s.commit(key, gen2, &ImportResult{}) {
			t.Error("Expected current generation commit to succeed")
		}
	})

	t.Run("other keys are not cancelled", func(t *testing.T) {
		s := newReceiptStore()
		other := storeKey{sessionID: "s1", kind: receipt.KindMutualFund}

		ctx1, _, done1 := s.begin(context.Background(), key)
		defer done1()
		_, _, done2 := s.begin(context.Background(), other)
		defer done2()

		if ctx1.Err() != nil {
			t.Error("Expected import for another kind to keep running")
		}
	})

	t.Run("generations are not reused after dropSession", func(t *testing.T) {
		s := newReceiptStore()

		ctx1, gen1, done1 := s.begin(context.Background(), key)
		defer done1()
		s.dropSession("s1")
		if ctx1.Err() == nil {
			t.Error("Expected dropSession to cancel in-flight import")
		}

		_, gen2, done2 := s.begin(context.Background(), key)
		defer done2()
		if gen1 == gen2 {
			t.Errorf("Expected a fresh generation, got %d twice", gen1)
		}
		if s.commit(key, gen1, &ImportResult{}) {
			t.Error("Expected dropped generation commit to fail")
		}
	})

	t.Run("get only returns committed results", func(t *testing.T) {
		s := newReceiptStore()

		_, gen, done := s.begin(context.Background(), key)
		defer done()
		if _, ok := s.get(key); ok {
			t.Error("Expected no result before commit")
		}

		want := &ImportResult{FileName: "d.csv"}
		s.commit(key, gen, want)
		got, ok := s.get(key)
		if !ok || got != want {
			t.Error("Expected committed result")
		}
	})
}

func TestReceiptService_SupersededImport(t *testing.T) {
	db := setupStoreTestDB(t)
	sessions := NewSessionService(repository.NewSessionRepository(db), testFernetKey(t), time.Hour)
	svc := NewReceiptService(sessions, repository.NewImportRepository(db), metrics.New(), logger.Nop())

	session, err := sessions.CreateSession(request.CreateSessionRequest{Name: "Taro", Email: "taro@example.com"})
	if err != nil {
		t.Fatalf("CreateSession() returned unexpected error: %v", err)
	}

	older := sjisStatement(t, `2024/03/15,2024/03/18,1301,極洋,特定,,,100,"1,500.0","150,000","1,200.0","30,000"`)
	newer := sjisStatement(t, `2024/04/01,2024/04/03,7203,トヨタ自動車,特定,,,100,"3,000","300,000","2,500","50,000"`)

	var newerResult *ImportResult
	var newerErr error
	fired := false
	svc.beforeCommit = func(uint64) {
		if fired {
			return
		}
		fired = true
		newerResult, newerErr = svc.Import(context.Background(), session.ID, receipt.KindDomesticStock, "newer.csv", newer)
	}

	_, err = svc.Import(context.Background(), session.ID, receipt.KindDomesticStock, "older.csv", older)
	if !errors.Is(err, apperrors.ErrStaleImport) {
		t.Fatalf("Expected ErrStaleImport for superseded import, got %v", err)
	}
	if newerErr != nil {
		t.Fatalf("Newer Import() returned unexpected error: %v", newerErr)
	}

	got, err := svc.Get(session.ID, receipt.KindDomesticStock)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.ImportID != newerResult.ImportID {
		t.Errorf("Expected newer import to be current, got %s", got.FileName)
	}

	logs, err := svc.History(session.ID, nil)
	if err != nil {
		t.Fatalf("History() returned unexpected error: %v", err)
	}
	statuses := map[string]string{}
	for _, l := range logs {
		statuses[l.FileName] = l.Status
	}
	if statuses["older.csv"] != model.ImportStale || statuses["newer.csv"] != model.ImportSucceeded {
		t.Errorf("Unexpected import statuses: %v", statuses)
	}
}

func setupStoreTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Configure(db); err != nil {
		t.Fatalf("Failed to configure test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return db
}

func testFernetKey(t *testing.T) *fernet.Key {
	t.Helper()

	var k fernet.Key
	if err := k.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return &k
}

func sjisStatement(t *testing.T, rows ...string) []byte {
	t.Helper()

	text := "約定日,受渡日,銘柄コード,銘柄名,口座区分,取引区分,信用区分,数量,売却単価,売却額,平均取得価額,実現損益\n"
	for _, r := range rows {
		text += r + "\n"
	}
	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return b
}
