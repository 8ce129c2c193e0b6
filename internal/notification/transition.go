package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown notification status")
)

// TransitionError names the state and type combination that was refused.
type TransitionError struct {
	ID     int
	Type   Type
	From   Status
	To     Status
	Detail string
	// Err is a more specific cause, such as ErrUnknownStatus.
	Err error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("notification %d (%s): cannot change status from %s to %s", e.ID, e.Type, e.From, e.To)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Transition returns n moved to status to, with the matching timestamp
// stamped at at. It does not touch storage.
//
//	Pendiente        -> Vista       always
//	Pendiente, Vista -> Resuelta    always
//	Pendiente        -> Aprobada    Comprobante only
//	Pendiente        -> Rechazada   Comprobante only, reason required
func Transition(n Notification, to Status, reason string, at time.Time) (Notification, error) {
	refuse := func(detail string) (Notification, error) {
		return n, &TransitionError{ID: n.ID, Type: n.Type, From: n.Status, To: to, Detail: detail}
	}
	if !to.Valid() {
		return n, &TransitionError{ID: n.ID, Type: n.Type, From: n.Status, To: to, Detail: "unknown status", Err: ErrUnknownStatus}
	}

	switch {
	case n.Status == StatusPending && to == StatusViewed:
		n.ViewedAt = &at
	case (n.Status == StatusPending || n.Status == StatusViewed) && to == StatusResolved:
		n.ResolvedAt = &at
	case n.Status == StatusPending && (to == StatusApproved || to == StatusRejected):
		if n.Type != TypePaymentProof {
			return refuse("only payment proofs can be approved or rejected")
		}
		if to == StatusRejected {
			reason = strings.TrimSpace(reason)
			if reason == "" {
				return refuse("a rejection reason is required")
			}
			n.RejectionReason = &reason
		}
		n.ResolvedAt = &at
	default:
		return refuse("")
	}

	n.Status = to
	return n, nil
}
