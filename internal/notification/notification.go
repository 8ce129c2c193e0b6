// Package notification tracks the administrative review records raised by the
// order service and the status machine that governs them.
package notification

import "time"

type Status string

const (
	StatusPending  Status = "Pendiente"
	StatusViewed   Status = "Vista"
	StatusResolved Status = "Resuelta"
	StatusApproved Status = "Aprobada"
	StatusRejected Status = "Rechazada"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusViewed, StatusResolved, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypeLowStock      Type = "StockBajo"
	TypeExpiry        Type = "Vencimiento"
	TypePaymentProof  Type = "Comprobante"
	TypeProductReview Type = "ReseñaProducto"
	TypeServiceReview Type = "ReseñaServicio"
	TypeGeneralReview Type = "ReseñaGeneral"
	TypeAppointment   Type = "Cita"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLowStock, TypeExpiry, TypePaymentProof, TypeProductReview, TypeServiceReview, TypeGeneralReview, TypeAppointment:
		return true
	}
	return false
}

// Notification is a review record waiting for an administrative decision.
type Notification struct {
	ID              int        `json:"id"`
	Type            Type       `json:"tipo"`
	Status          Status     `json:"estado"`
	Title           string     `json:"titulo"`
	Message         string     `json:"mensaje"`
	ReferenceID     *int       `json:"idReferencia,omitempty"`
	CreatedAt       time.Time  `json:"fechaCreacion"`
	ViewedAt        *time.Time `json:"fechaVista,omitempty"`
	ResolvedAt      *time.Time `json:"fechaResolucion,omitempty"`
	RejectionReason *string    `json:"motivoRechazo,omitempty"`
}

// Filter narrows List results. Empty slices match everything.
type Filter struct {
	Types    []Type
	Statuses []Status
}

func (f Filter) Match(n Notification) bool {
	return matchAny(f.Types, n.Type) && matchAny(f.Statuses, n.Status)
}

func matchAny[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
