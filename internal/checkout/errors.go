package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrValidationFailed       = errors.New("customer details are invalid")
	ErrMissingPaymentProof    = errors.New("payment proof is required")
	ErrRemoteSubmissionFailed = errors.New("order could not be submitted")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("%s (%s)", ErrValidationFailed, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// SubmissionFailedError reports an order that was saved to the failed order
// queue under QueueID instead of being delivered.
type SubmissionFailedError struct {
	QueueID string
	Cause   error
}

func (e *SubmissionFailedError) Error() string {
	return fmt.Sprintf("%s, saved as %s: %v", ErrRemoteSubmissionFailed, e.QueueID, e.Cause)
}

func (e *SubmissionFailedError) Is(target error) bool {
	return target == ErrRemoteSubmissionFailed
}

func (e *SubmissionFailedError) Unwrap() error {
	return e.Cause
}
