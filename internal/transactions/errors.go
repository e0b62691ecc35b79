package transactions

import (
	"errors"
	"fmt"

	"docverify-backend/internal/imaging"
)

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrImageNotStored = errors.New("image not stored")
)

// RejectedError reports a submission that failed validation. The audit
// record has already been persisted when it is returned.
type RejectedError struct {
	Transaction Transaction
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected (code %d): %s", e.Transaction.ErrorCode, e.Transaction.Details)
}

// Code returns the persisted failure code.
func (e *RejectedError) Code() imaging.ErrorCode {
	return e.Transaction.ErrorCode
}
