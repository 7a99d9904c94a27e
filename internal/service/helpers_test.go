package service_test

import (
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
)

func testMetrics() *metrics.Metrics { return metrics.New() }

func testLogger() *logger.Logger { return logger.Nop() }
