package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateKind checks a receipt kind taken from the request path
func ValidateKind(kind string) (receipt.Kind, error) {
	k, err := receipt.ParseKind(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidKind, kind)
	}
	return k, nil
}
