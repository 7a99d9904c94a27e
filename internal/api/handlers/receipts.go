package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/request"
	"github.com/ndewijer/shoken-receipts-backend/internal/api/response"
	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
	"github.com/ndewijer/shoken-receipts-backend/internal/statement"
)

// Multipart form field carrying the statement.
const uploadField = "file"

// ReceiptHandler handles statement uploads and serves the resulting receipts.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	maxUploadBytes int64
}

// NewReceiptHandler creates a new ReceiptHandler. Uploads above maxUploadBytes are rejected with 413.
func NewReceiptHandler(receiptService *service.ReceiptService, maxUploadBytes int64) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Import handles POST requests carrying a brokerage statement as multipart form data.
// The statement replaces the session's current receipts of that kind.
//
// Endpoint: POST /api/session/{uuid}/receipts/{kind}
// Request Body: multipart/form-data with the statement in field "file"
// Response: 201 Created with ImportResult
// Error: 400 Bad Request if the kind is unknown or the file part is missing
// Error: 404 Not Found if the session does not exist
// Error: 409 Conflict if a newer upload for the same kind superseded this one
// Error: 413 Request Entity Too Large if the upload exceeds the configured limit
// Error: 422 Unprocessable Entity if the statement cannot be decoded or parsed
func (h *ReceiptHandler) Import(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "uuid")
	kind := receipt.Kind(chi.URLParam(r, "kind"))

	fileName, data, err := h.readUpload(w, r)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUploadTooLarge):
			response.RespondError(w, http.StatusRequestEntityTooLarge, apperrors.ErrUploadTooLarge.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		}
		return
	}

	result, err := h.receiptService.Import(r.Context(), sessionID, kind, fileName, data)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStaleImport):
			response.RespondError(w, http.StatusConflict, apperrors.ErrStaleImport.Error(), err.Error())
		case errors.Is(err, statement.ErrDecode), errors.Is(err, statement.ErrParse):
			response.RespondError(w, http.StatusUnprocessableEntity, "statement could not be read", err.Error())
		default:
			respondSessionError(w, err, "failed to import statement")
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

// readUpload returns the name and content of the uploaded file part.
func (h *ReceiptHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, apperrors.ErrUploadTooLarge
		}
		return "", nil, err
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp files only

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, apperrors.ErrMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// Receipts handles GET requests for the session's current receipts of a kind.
// With ?format=display every value is formatted and labelled for presentation.
//
// Endpoint: GET /api/session/{uuid}/receipts/{kind}
// Response: 200 OK with ImportResult, or DisplayResult when format=display
// Error: 404 Not Found if the session does not exist or nothing was imported yet
func (h *ReceiptHandler) Receipts(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "uuid")
	kind := receipt.Kind(chi.URLParam(r, "kind"))

	result, err := h.receiptService.Get(sessionID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoReceipts) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoReceipts.Error(), err.Error())
			return
		}
		respondSessionError(w, err, "failed to retrieve receipts")
		return
	}

	if r.URL.Query().Get("format") == "display" {
		response.RespondJSON(w, http.StatusOK, service.Display(result))
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// Imports handles GET requests for the session's import history, newest first by default.
//
// Endpoint: GET /api/session/{uuid}/imports
// Query Parameters: kind, status, start_date, end_date, sort_dir, limit (see request.ParseImportLogFilters)
// Response: 200 OK with array of ImportLog
// Error: 400 Bad Request if a filter is invalid
// Error: 404 Not Found if the session does not exist
func (h *ReceiptHandler) Imports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := request.ParseImportLogFilters(
		q.Get("kind"), q.Get("status"), q.Get("start_date"), q.Get("end_date"), q.Get("sort_dir"), q.Get("limit"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	logs, err := h.receiptService.History(chi.URLParam(r, "uuid"), filters)
	if err != nil {
		respondSessionError(w, err, "failed to retrieve import history")
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}
