package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
	"github.com/ndewijer/shoken-receipts-backend/internal/testutil"
)

const kyokuyoRow = `2024/03/15,2024/03/18,1301,極洋,特定,,,100,"1,500.0","150,000","1,200.0","30,000"`

func setupReceiptHandler(t *testing.T, maxUpload int64) (*ReceiptHandler, model.Session) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc, _ := testutil.NewTestReceiptService(t, db)
	return NewReceiptHandler(svc, maxUpload), testutil.CreateSession(t, db)
}

func uploadRequest(t *testing.T, sessionID, kind string, data []byte) *http.Request {
	t.Helper()
	path := "/api/session/" + sessionID + "/receipts/" + kind
	req := testutil.NewMultipartRequest(t, path, "file", kind+".csv", data)
	return testutil.WithURLParams(req, map[string]string{"uuid": sessionID, "kind": kind})
}

func TestReceiptHandler_Import(t *testing.T) {
	t.Run("imports a statement", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		w := httptest.NewRecorder()
		handler.Import(w, uploadRequest(t, session.ID, "domestic_stock", testutil.DomesticStockStatement(t, kyokuyoRow)))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var result struct {
			FileName string `json:"fileName"`
			Grouping struct {
				Total struct {
					Profit struct {
						Total int64 `json:"total_realized_profit_and_loss"`
						Tax   int64 `json:"withholding_tax"`
					} `json:"profit"`
				} `json:"total"`
			} `json:"grouping"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.FileName != "domestic_stock.csv" {
			t.Errorf("Expected file name to be recorded, got '%s'", result.FileName)
		}
		if result.Grouping.Total.Profit.Total != 30000 || result.Grouping.Total.Profit.Tax != 6094 {
			t.Errorf("Unexpected totals: %+v", result.Grouping.Total.Profit)
		}
	})

	t.Run("returns 422 for a statement that is not Shift_JIS", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		w := httptest.NewRecorder()
		handler.Import(w, uploadRequest(t, session.ID, "dividend", []byte{0x80, 0x80}))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 422 for a malformed CSV", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		w := httptest.NewRecorder()
		handler.Import(w, uploadRequest(t, session.ID, "dividend", []byte("h\n\"open,1\n")))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 413 when the upload exceeds the limit", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 512)

		w := httptest.NewRecorder()
		handler.Import(w, uploadRequest(t, session.ID, "dividend", bytes.Repeat([]byte("a"), 4096)))

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 without a file part", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		path := "/api/session/" + session.ID + "/receipts/dividend"
		req := testutil.NewMultipartRequest(t, path, "attachment", "d.csv", []byte("x"))
		req = testutil.WithURLParams(req, map[string]string{"uuid": session.ID, "kind": "dividend"})
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown session", func(t *testing.T) {
		handler, _ := setupReceiptHandler(t, 1<<20)

		w := httptest.NewRecorder()
		handler.Import(w, uploadRequest(t, testutil.MakeID(), "dividend", []byte("h\n")))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestReceiptHandler_Receipts(t *testing.T) {
	t.Run("returns 404 before anything was imported", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/", map[string]string{"uuid": session.ID, "kind": "mutual_fund"})
		w := httptest.NewRecorder()

		handler.Receipts(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("renders display cells on request", func(t *testing.T) {
		handler, session := setupReceiptHandler(t, 1<<20)

		handler.Import(httptest.NewRecorder(), uploadRequest(t, session.ID, "domestic_stock", testutil.DomesticStockStatement(t, kyokuyoRow)))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"format": "display"})
		req = testutil.WithURLParams(req, map[string]string{"uuid": session.ID, "kind": "domestic_stock"})
		w := httptest.NewRecorder()

		handler.Receipts(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var display service.DisplayResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&display)

		if len(display.Groups) != 1 {
			t.Fatalf("Expected 1 group, got %d", len(display.Groups))
		}
		if display.Groups[0].Key != "2024/03/15" {
			t.Errorf("Expected display key '2024/03/15', got '%s'", display.Groups[0].Key)
		}

		values := map[string]string{}
		for _, c := range display.Total {
			values[c.Key] = c.Value
		}
		if values["withholding_tax"] != "¥ 6,094" {
			t.Errorf("Expected formatted tax '¥ 6,094', got '%s'", values["withholding_tax"])
		}
	})
}

func TestReceiptHandler_Imports(t *testing.T) {
	handler, session := setupReceiptHandler(t, 1<<20)

	handler.Import(httptest.NewRecorder(), uploadRequest(t, session.ID, "dividend", []byte{0x80}))

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/", map[string]string{"uuid": session.ID})
	w := httptest.NewRecorder()

	handler.Imports(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var logs []model.ImportLog
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&logs)

	if len(logs) != 1 || logs[0].Status != model.ImportFailed {
		t.Errorf("Expected one failed import, got %+v", logs)
	}
}

func TestReceiptHandler_Imports_InvalidFilter(t *testing.T) {
	handler, session := setupReceiptHandler(t, 1<<20)

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"status": "pending"})
	req = testutil.WithURLParams(req, map[string]string{"uuid": session.ID})
	w := httptest.NewRecorder()

	handler.Imports(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
