package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrSessionNotFound indicates that a session with the given ID does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoReceipts indicates that nothing has been imported yet for a session and receipt kind.
	ErrNoReceipts = errors.New("no receipts imported")

	// ErrStockNotFound indicates that the stock lookup returned no result.
	ErrStockNotFound = errors.New("stock not found")
)

// Business logic errors represent validation failures or rejected operations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidKind indicates an unsupported receipt kind in the request path.
	ErrInvalidKind = errors.New("invalid receipt kind")

	// ErrStaleImport indicates that a newer import for the same session and kind
	// started before this one finished; its result was discarded.
	ErrStaleImport = errors.New("import superseded by a newer upload")

	// ErrUploadTooLarge indicates that the uploaded statement exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrMissingFile indicates a multipart upload without a file part.
	ErrMissingFile = errors.New("file is required")
)

// Operation failure errors represent system-level failures.
var (
	// ErrFailedToEncryptAuthCode indicates the session secret could not be encrypted.
	ErrFailedToEncryptAuthCode = errors.New("failed to encrypt auth code")

	// ErrFailedToDecryptAuthCode indicates the stored auth code cannot be read with the current key.
	ErrFailedToDecryptAuthCode = errors.New("failed to decrypt auth code")

	// ErrStockLookupUnavailable indicates the remote stock API is failing.
	ErrStockLookupUnavailable = errors.New("stock lookup unavailable")

	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
