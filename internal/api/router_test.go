package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/shoken-receipts-backend/internal/api"
	"github.com/ndewijer/shoken-receipts-backend/internal/config"
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/testutil"
)

func newTestServer(t *testing.T) (*httptest.Server, *testutil.MockStockClient) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	receipts, sessions := testutil.NewTestReceiptService(t, db)
	client := testutil.NewMockStockClient()

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Import:    config.ImportConfig{MaxUploadBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	router := api.NewRouter(
		testutil.NewTestSystemService(t, db),
		sessions,
		receipts,
		testutil.NewTestStockService(t, client),
		metrics.New(),
		logger.Nop(),
		cfg,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, client
}

func TestRouter(t *testing.T) {
	srv, client := newTestServer(t)

	get := func(t *testing.T, path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	t.Run("serves health", func(t *testing.T) {
		if code, _ := get(t, "/api/system/health"); code != http.StatusOK {
			t.Errorf("Expected 200, got %d", code)
		}
	})

	t.Run("rejects a malformed session id", func(t *testing.T) {
		if code, _ := get(t, "/api/session/not-a-uuid"); code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})

	t.Run("rejects an unknown receipt kind", func(t *testing.T) {
		if code, _ := get(t, "/api/session/"+testutil.MakeID()+"/receipts/bonds"); code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})

	t.Run("routes stock lookups", func(t *testing.T) {
		code, body := get(t, "/api/stock/1301")
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if !strings.Contains(body, "極洋") {
			t.Errorf("Expected stock name in body, got %s", body)
		}
		if client.LastQuery != "1301" {
			t.Errorf("Expected query '1301', got '%s'", client.LastQuery)
		}
	})

	t.Run("creates a session", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/session", "application/json",
			strings.NewReader(`{"name":"Taro","email":"taro@example.com"}`))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
	})

	t.Run("routes auth code verification", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/session/"+testutil.MakeID()+"/verify", "application/json",
			strings.NewReader(`{"authCode":"abc123"}`))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for unknown session, got %d", resp.StatusCode)
		}
	})

	t.Run("exposes metrics", func(t *testing.T) {
		code, body := get(t, "/metrics")
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if !strings.Contains(body, "shoken_http_requests_total") {
			t.Error("Expected HTTP request counter in exposition")
		}
	})
}

func TestRouter_RateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	receipts, sessions := testutil.NewTestReceiptService(t, db)
	cfg := &config.Config{
		Import:    config.ImportConfig{MaxUploadBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1},
	}
	router := api.NewRouter(
		testutil.NewTestSystemService(t, db), sessions, receipts,
		testutil.NewTestStockService(t, testutil.NewMockStockClient()),
		metrics.New(), logger.Nop(), cfg,
	)

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected 200 then 429, got %v", codes)
	}
}
