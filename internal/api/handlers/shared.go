package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/response"
	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/validation"
)

// Upper bound for JSON request bodies.
const maxJSONBodyBytes = 64 << 10

// parseJSON decodes the request body into T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return req, errors.New("invalid JSON: unexpected data after object")
	}
	return req, nil
}

// respondValidationError writes 400 with per-field messages when err is a validation.Error.
func respondValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// respondSessionError maps errors shared by every session-scoped endpoint.
func respondSessionError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrSessionNotFound.Error(), err.Error())
		return
	}
	response.RespondError(w, http.StatusInternalServerError, fallback, err.Error())
}
