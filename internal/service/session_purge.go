package service

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
)

// SessionPurger removes idle sessions together with their in-memory receipt sets.
type SessionPurger struct {
	sessionService *SessionService
	receiptService *ReceiptService
	metrics        *metrics.Metrics
	log            *logger.Logger
}

// NewSessionPurger creates a new SessionPurger.
func NewSessionPurger(sessionService *SessionService, receiptService *ReceiptService, m *metrics.Metrics, log *logger.Logger) *SessionPurger {
	return &SessionPurger{
		sessionService: sessionService,
		receiptService: receiptService,
		metrics:        m,
		log:            log,
	}
}

// Run purges once and returns the number of removed sessions.
func (p *SessionPurger) Run() (int, error) {
	ids, err := p.sessionService.PurgeExpired()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		p.receiptService.DropSession(id)
	}
	p.metrics.SessionsPurged.Add(float64(len(ids)))
	return len(ids), nil
}

// Schedule registers the purge on a new cron scheduler. The caller starts and stops it.
func (p *SessionPurger) Schedule(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := p.Run()
		if err != nil {
			p.log.WithError(err).Error("session purge failed")
			return
		}
		if n > 0 {
			p.log.Infow("purged idle sessions", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return c, nil
}
