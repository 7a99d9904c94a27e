package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/stock"
)

// StockService resolves stock codes and names through the stock lookup API.
type StockService struct {
	client stock.Lookuper
}

// NewStockService creates a new StockService.
func NewStockService(client stock.Lookuper) *StockService {
	return &StockService{client: client}
}

// Lookup returns the stock matching query, mapping client errors to application errors.
func (s *StockService) Lookup(ctx context.Context, query string) (stock.Stock, error) {
	result, err := s.client.Lookup(ctx, query)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, stock.ErrNotFound), errors.Is(err, stock.ErrEmptyQuery):
		return stock.Stock{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, query)
	case errors.Is(err, stock.ErrUnavailable):
		return stock.Stock{}, apperrors.ErrStockLookupUnavailable
	default:
		return stock.Stock{}, err
	}
}
