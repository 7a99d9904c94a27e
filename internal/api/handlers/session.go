package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/request"
	"github.com/ndewijer/shoken-receipts-backend/internal/api/response"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
	"github.com/ndewijer/shoken-receipts-backend/internal/validation"
)

// SessionHandler handles HTTP requests for session endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler with the provided service dependency.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// CreateSession handles POST requests to store the user info of a new visitor.
//
// Endpoint: POST /api/session
// Request Body: CreateSessionRequest (name, email, and optionally authCode)
// Response: 201 Created with Session
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateSessionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateSession(req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.sessionService.CreateSession(req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, session)
}

// GetSession handles GET requests for a stored session and marks it as seen.
//
// Endpoint: GET /api/session/{uuid}
// Response: 200 OK with Session
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the session does not exist
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetSession(chi.URLParam(r, "uuid"))
	if err != nil {
		respondSessionError(w, err, "failed to retrieve session")
		return
	}

	response.RespondJSON(w, http.StatusOK, session)
}

// VerifyAuthResponse reports the outcome of an auth code check.
type VerifyAuthResponse struct {
	Valid bool `json:"valid"`
}

// VerifyAuthCode handles POST requests that check an auth code against the one stored
// for the session. The stored code itself is never returned.
//
// Endpoint: POST /api/session/{uuid}/verify
// Request Body: VerifyAuthCodeRequest (authCode)
// Response: 200 OK with VerifyAuthResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the session does not exist
// Error: 500 Internal Server Error if the stored code cannot be decrypted
func (h *SessionHandler) VerifyAuthCode(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.VerifyAuthCodeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateVerifyAuthCode(req); err != nil {
		respondValidationError(w, err)
		return
	}

	valid, err := h.sessionService.VerifyAuthCode(chi.URLParam(r, "uuid"), req.AuthCode)
	if err != nil {
		respondSessionError(w, err, "failed to verify auth code")
		return
	}

	response.RespondJSON(w, http.StatusOK, VerifyAuthResponse{Valid: valid})
}
