package checkout

import (
	"errors"

	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
)

// Outcome groups checkout errors by what the shopper has to do next.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFixData
	OutcomeSignIn
	OutcomeSavedForRetry
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFixData:
		return "fix_data"
	case OutcomeSignIn:
		return "sign_in"
	case OutcomeSavedForRetry:
		return "saved_for_retry"
	default:
		return "unexpected"
	}
}

// Message is the text shown to the shopper.
func (o Outcome) Message() string {
	switch o {
	case OutcomeOK:
		return "Order placed"
	case OutcomeFixData:
		return "Please review your order details"
	case OutcomeSignIn:
		return "Please sign in again to complete your order"
	case OutcomeSavedForRetry:
		return "We saved your order, try again later"
	default:
		return "Something went wrong, please try again"
	}
}

func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrMissingPaymentProof), errors.Is(err, cart.ErrStockExceeded):
		return OutcomeFixData
	case errors.Is(err, customer.ErrSessionExpired), errors.Is(err, customer.ErrIdentityLinkMissing):
		return OutcomeSignIn
	case errors.Is(err, ErrRemoteSubmissionFailed):
		return OutcomeSavedForRetry
	default:
		return OutcomeUnexpected
	}
}
