package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
	"github.com/ndewijer/shoken-receipts-backend/internal/repository"
	"github.com/ndewijer/shoken-receipts-backend/internal/statement"
)

// ImportResult is the receipt set produced by one successful import.
type ImportResult struct {
	ImportID    string           `json:"importId"`
	SessionID   string           `json:"sessionId"`
	Kind        receipt.Kind     `json:"kind"`
	Generation  uint64           `json:"generation"`
	FileName    string           `json:"fileName"`
	RowCount    int              `json:"rowCount"`
	FieldErrors int              `json:"fieldErrors"`
	Grouping    receipt.Grouping `json:"grouping"`
	ImportedAt  time.Time        `json:"importedAt"`
}

// ReceiptService runs statement imports and holds the latest receipt set per session and kind.
//
// A new import for a session and kind supersedes any import still running for it: the older
// import's context is cancelled and its result is discarded at commit time. A failed import
// leaves the previous receipt set in place.
type ReceiptService struct {
	sessionService *SessionService
	importRepo     *repository.ImportRepository
	store          *receiptStore
	metrics        *metrics.Metrics
	log            *logger.Logger
	now            func() time.Time

	// beforeCommit runs between aggregation and commit; tests use it to interleave imports.
	beforeCommit func(gen uint64)
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(
	sessionService *SessionService,
	importRepo *repository.ImportRepository,
	m *metrics.Metrics,
	log *logger.Logger,
) *ReceiptService {
	return &ReceiptService{
		sessionService: sessionService,
		importRepo:     importRepo,
		store:          newReceiptStore(),
		metrics:        m,
		log:            log,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Import decodes, parses, maps and aggregates one uploaded statement and makes it the
// session's current receipt set for kind.
//
// Returns:
//   - apperrors.ErrSessionNotFound if the session does not exist
//   - statement.ErrDecode or statement.ErrParse (wrapped) for unreadable statements
//   - apperrors.ErrStaleImport if a newer import for the same session and kind started meanwhile
func (s *ReceiptService) Import(ctx context.Context, sessionID string, kind receipt.Kind, fileName string, data []byte) (*ImportResult, error) {
	if err := s.sessionService.Touch(sessionID); err != nil {
		return nil, err
	}

	key := storeKey{sessionID: sessionID, kind: kind}
	ctx, gen, done := s.store.begin(ctx, key)
	defer done()

	log := s.log.WithFields(map[string]any{
		"session_id": sessionID,
		"kind":       kind,
		"generation": gen,
		"file_name":  fileName,
	})
	start := time.Now()

	entry := model.ImportLog{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Kind:       string(kind),
		Generation: gen,
		FileName:   fileName,
	}

	result, err := s.run(ctx, kind, data, log)
	if err == nil {
		entry.RowCount = result.RowCount
		entry.FieldErrors = result.FieldErrors
		entry.GroupedCount = result.Grouping.Len()
		entry.DroppedCount = result.Grouping.Dropped

		if s.beforeCommit != nil {
			s.beforeCommit(gen)
		}

		result.ImportID = entry.ID
		result.SessionID = sessionID
		result.Generation = gen
		result.FileName = fileName
		result.ImportedAt = s.now()

		if !s.store.commit(key, gen, result) {
			err = apperrors.ErrStaleImport
		}
	} else if ctx.Err() != nil && s.store.current(key) != gen {
		err = fmt.Errorf("%w: %v", apperrors.ErrStaleImport, err)
	}

	s.metrics.ImportDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		entry.Status = model.ImportSucceeded
	case errors.Is(err, apperrors.ErrStaleImport):
		entry.Status = model.ImportStale
		entry.Error = err.Error()
	default:
		entry.Status = model.ImportFailed
		entry.Error = err.Error()
	}
	entry.ImportedAt = s.now()
	s.metrics.ImportsTotal.WithLabelValues(string(kind), entry.Status).Inc()

	if logErr := s.importRepo.InsertImportLog(entry); logErr != nil {
		log.WithError(logErr).Error("failed to record import")
	}

	if err != nil {
		log.WithError(err).Warnw("statement import did not complete", "status", entry.Status)
		return nil, err
	}

	s.metrics.ReceiptsImported.WithLabelValues(string(kind)).Add(float64(entry.GroupedCount))
	s.metrics.RowsDropped.WithLabelValues(string(kind)).Add(float64(entry.DroppedCount))
	s.metrics.FieldErrors.WithLabelValues(string(kind)).Add(float64(entry.FieldErrors))
	log.Infow("statement imported",
		"rows", entry.RowCount,
		"grouped", entry.GroupedCount,
		"dropped", entry.DroppedCount,
		"field_errors", entry.FieldErrors,
		"duration", time.Since(start),
	)

	return result, nil
}

// run is the pipeline itself. It checks ctx between stages and while mapping rows.
func (s *ReceiptService) run(ctx context.Context, kind receipt.Kind, data []byte, log *logger.Logger) (*ImportResult, error) {
	text, err := statement.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := statement.ReadRows(text)
	if err != nil {
		return nil, err
	}

	receipts, fieldErrors, err := receipt.MapRows(ctx, kind, rows, log)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Kind:        kind,
		RowCount:    len(rows),
		FieldErrors: fieldErrors,
		Grouping:    receipt.GroupAndSummarize(kind, receipts),
	}, nil
}

// Get returns the current receipt set of a session for kind and marks the session as seen.
func (s *ReceiptService) Get(sessionID string, kind receipt.Kind) (*ImportResult, error) {
	if err := s.sessionService.Touch(sessionID); err != nil {
		return nil, err
	}
	result, ok := s.store.get(storeKey{sessionID: sessionID, kind: kind})
	if !ok {
		return nil, apperrors.ErrNoReceipts
	}
	return result, nil
}

// History returns the import log of a session matching filters; nil returns everything, newest first.
func (s *ReceiptService) History(sessionID string, filters *model.ImportLogFilters) ([]model.ImportLog, error) {
	if err := s.sessionService.Exists(sessionID); err != nil {
		return nil, err
	}
	return s.importRepo.GetImportLogs(sessionID, filters)
}

// DropSession forgets every receipt set of the session.
func (s *ReceiptService) DropSession(sessionID string) {
	s.store.dropSession(sessionID)
}
