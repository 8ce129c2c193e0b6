package checkout

import (
	"regexp"
	"strings"

	"github.com/wichananm65/pet-shop-orders/internal/customer"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	documentPattern = regexp.MustCompile(`^\d{7,12}$`)
)

// Form is the customer data typed at checkout. For signed-in shoppers
// non-empty fields override the stored profile.
type Form struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Document      string `json:"document"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (f Form) trimmed() Form {
	return Form{
		FirstName:     strings.TrimSpace(f.FirstName),
		LastName:      strings.TrimSpace(f.LastName),
		Document:      strings.TrimSpace(f.Document),
		Email:         strings.TrimSpace(f.Email),
		Phone:         strings.TrimSpace(f.Phone),
		Address:       strings.TrimSpace(f.Address),
		PaymentMethod: strings.TrimSpace(f.PaymentMethod),
	}
}

// Validate checks f; guest selects the stricter document rule.
func (f Form) Validate(guest bool) error {
	f = f.trimmed()
	fields := map[string]string{}

	if f.FirstName == "" {
		fields["firstName"] = "is required"
	}
	switch {
	case f.Email == "":
		fields["email"] = "is required"
	case !emailPattern.MatchString(f.Email):
		fields["email"] = "is not a valid email address"
	}
	if f.Phone == "" {
		fields["phone"] = "is required"
	}
	if f.Address == "" {
		fields["address"] = "is required"
	}
	if (guest || f.Document != "") && !documentPattern.MatchString(f.Document) {
		fields["document"] = "must be 7 to 12 digits"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (f Form) profile() customer.Profile {
	f = f.trimmed()
	return customer.Profile{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Document:  f.Document,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
	}
}
