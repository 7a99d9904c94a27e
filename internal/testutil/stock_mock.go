package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/shoken-receipts-backend/internal/stock"
)

// MockStockClient is a mock implementation of stock.Lookuper for testing.
// It returns predefined data instead of calling the remote API.
type MockStockClient struct {
	mu sync.Mutex
	// MockResponse is the stock to return from Lookup
	MockResponse stock.Stock
	// MockError is the error to return from Lookup
	MockError error
	// QueryCount tracks how many times Lookup was called
	QueryCount int
	// LastQuery is the most recent query passed to Lookup
	LastQuery string
}

// NewMockStockClient creates a new mock stock client with default test data.
func NewMockStockClient() *MockStockClient {
	return &MockStockClient{
		MockResponse: CreateMockStock("1301", "極洋"),
	}
}

// Lookup returns the configured MockResponse and MockError.
func (m *MockStockClient) Lookup(_ context.Context, query string) (stock.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.LastQuery = query
	if m.MockError != nil {
		return stock.Stock{}, m.MockError
	}
	return m.MockResponse, nil
}

// WithError configures the mock to return the specified error.
func (m *MockStockClient) WithError(err error) *MockStockClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified stock.
func (m *MockStockClient) WithResponse(s stock.Stock) *MockStockClient {
	m.MockResponse = s
	return m
}

// CreateMockStock creates a stock descriptor with plausible classification fields.
func CreateMockStock(code, name string) stock.Stock {
	return stock.Stock{
		Code:                  code,
		Name:                  name,
		MarketProductCategory: "プライム（内国株式）",
		IndustryCode33:        "50",
		IndustryCategory33:    "水産・農林業",
		IndustryCode17:        "1",
		IndustryCategory17:    "食品",
		ScaleCode:             "7",
		ScaleCategory:         "TOPIX Small 2",
	}
}
