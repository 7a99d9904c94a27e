package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/response"
	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
)

// StockHandler serves stock code and name lookups.
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// Lookup handles GET requests resolving a stock code or name.
//
// Endpoint: GET /api/stock/{query}
// Response: 200 OK with Stock
// Error: 404 Not Found if no stock matches
// Error: 503 Service Unavailable if the lookup API is failing
// Error: 502 Bad Gateway for any other upstream failure
func (h *StockHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	s, err := h.stockService.Lookup(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStockNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStockNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrStockLookupUnavailable):
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrStockLookupUnavailable.Error(), nil)
		default:
			response.RespondError(w, http.StatusBadGateway, "stock lookup failed", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, s)
}
