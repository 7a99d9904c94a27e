package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/response"
	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/testutil"
)

func TestSessionHandler_CreateSession(t *testing.T) {
	setupHandler := func(t *testing.T) *SessionHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		return NewSessionHandler(testutil.NewTestSessionService(t, db))
	}

	t.Run("creates a session", func(t *testing.T) {
		handler := setupHandler(t)

		body := `{"name":"山田 太郎","email":"taro@example.com","authCode":"abc123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateSession(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var session model.Session
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&session)

		if session.ID == "" {
			t.Error("Expected session ID to be set")
		}
		if session.Name != "山田 太郎" {
			t.Errorf("Expected name '山田 太郎', got '%s'", session.Name)
		}
		if !session.HasAuthCode {
			t.Error("Expected hasAuthCode to be true")
		}
		if strings.Contains(w.Body.String(), "abc123") {
			t.Error("Expected auth code to stay out of the response")
		}
	})

	t.Run("returns 400 with field messages when validation fails", func(t *testing.T) {
		handler := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"name":"","email":"nope"}`))
		w := httptest.NewRecorder()

		handler.CreateSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}

		var resp struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Details["name"] == "" || resp.Details["email"] == "" {
			t.Errorf("Expected name and email messages, got %v", resp.Details)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		handler := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"name":`))
		w := httptest.NewRecorder()

		handler.CreateSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for unknown fields", func(t *testing.T) {
		handler := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"name":"a","email":"a@b","admin":true}`))
		w := httptest.NewRecorder()

		handler.CreateSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestSessionHandler_GetSession(t *testing.T) {
	t.Run("returns an existing session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSessionHandler(testutil.NewTestSessionService(t, db))
		session := testutil.CreateSession(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/session/"+session.ID, map[string]string{"uuid": session.ID})
		w := httptest.NewRecorder()

		handler.GetSession(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Session
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)

		if got.ID != session.ID {
			t.Errorf("Expected session %s, got %s", session.ID, got.ID)
		}
	})

	t.Run("returns 404 for unknown session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSessionHandler(testutil.NewTestSessionService(t, db))
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/session/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetSession(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}

		var resp response.ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Error != "session not found" {
			t.Errorf("Expected 'session not found', got '%s'", resp.Error)
		}
	})
}

func TestSessionHandler_VerifyAuthCode(t *testing.T) {
	setup := func(t *testing.T) (*SessionHandler, string) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		handler := NewSessionHandler(testutil.NewTestSessionService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"name":"Taro","email":"taro@example.jp","authCode":"abc123"}`))
		w := httptest.NewRecorder()
		handler.CreateSession(w, req)

		var session model.Session
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&session)
		return handler, session.ID
	}

	verify := func(handler *SessionHandler, id, body string) *httptest.ResponseRecorder {
		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/session/"+id+"/verify", map[string]string{"uuid": id})
		req.Body = io.NopCloser(strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.VerifyAuthCode(w, req)
		return w
	}

	t.Run("reports whether the code matches", func(t *testing.T) {
		handler, id := setup(t)

		for code, want := range map[string]bool{"abc123": true, "wrong": false} {
			w := verify(handler, id, `{"authCode":"`+code+`"}`)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp VerifyAuthResponse
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&resp)

			if resp.Valid != want {
				t.Errorf("Expected valid=%v for %q, got %v", want, code, resp.Valid)
			}
			if strings.Contains(w.Body.String(), "abc123") {
				t.Error("Expected auth code to stay out of the response")
			}
		}
	})

	t.Run("returns 400 when the code is missing", func(t *testing.T) {
		handler, id := setup(t)

		if w := verify(handler, id, `{}`); w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown session", func(t *testing.T) {
		handler, _ := setup(t)

		if w := verify(handler, testutil.MakeID(), `{"authCode":"abc123"}`); w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
