package customer

import "errors"

var (
	ErrNotFound            = errors.New("customer not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrIdentityLinkMissing = errors.New("user is not linked to a customer record")
)

// Profile is the customer identity attached to an order.
type Profile struct {
	CustomerID int    `json:"customerId"`
	UserID     int    `json:"userId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Document   string `json:"document"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Complete reports whether the profile can be used for checkout without a
// remote refresh.
func (p Profile) Complete() bool {
	return p.CustomerID > 0 && p.Phone != "" && p.Address != ""
}

// Merge returns p with every non-empty field of other copied over it.
func (p Profile) Merge(other Profile) Profile {
	if other.CustomerID > 0 {
		p.CustomerID = other.CustomerID
	}
	if other.UserID > 0 {
		p.UserID = other.UserID
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.FirstName, other.FirstName)
	set(&p.LastName, other.LastName)
	set(&p.Document, other.Document)
	set(&p.Email, other.Email)
	set(&p.Phone, other.Phone)
	set(&p.Address, other.Address)
	return p
}

// Record is the canonical customer record as served by the customer lookup
// endpoint.
type Record struct {
	CustomerID int    `json:"IdCliente"`
	UserID     int    `json:"IdUsuario,omitempty"`
	FirstName  string `json:"Nombre"`
	LastName   string `json:"Apellido"`
	Document   string `json:"Documento"`
	Email      string `json:"Correo"`
	Phone      string `json:"Telefono"`
	Address    string `json:"Direccion"`
}

func (r Record) Profile() Profile {
	return Profile{
		CustomerID: r.CustomerID,
		UserID:     r.UserID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Document:   r.Document,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
	}
}
