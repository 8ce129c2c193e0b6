// Package order holds the order submission sent at checkout and the sale
// intake that receives it on the order service.
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
)

type Status string

// StatusPending is the only status a storefront submits.
const StatusPending Status = "Pendiente"

const DefaultPaymentMethod = "Transferencia"

// Submission is a fully priced order as assembled at checkout. A queued
// submission is replayed byte for byte.
type Submission struct {
	Items           []cart.Item      `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Tax             decimal.Decimal  `json:"tax"`
	ShippingCost    decimal.Decimal  `json:"shippingCost"`
	DiscountAmount  decimal.Decimal  `json:"discountAmount"`
	Total           decimal.Decimal  `json:"total"`
	DiscountCode    string           `json:"discountCode,omitempty"`
	Customer        customer.Profile `json:"customer"`
	PaymentProofRef string           `json:"paymentProofRef"`
	PaymentMethod   string           `json:"paymentMethod"`
	Status          Status           `json:"status"`
	SubmittedAt     time.Time        `json:"submittedAt"`
}

// Summary is the confirmation returned for an accepted order.
type Summary struct {
	SaleID     int        `json:"saleId"`
	Message    string     `json:"message"`
	Submission Submission `json:"order"`
}

// SaleData is the ventaData document of the sale intake endpoint.
type SaleData struct {
	CustomerID     int             `json:"IdCliente"`
	UserID         int             `json:"IdUsuario,omitempty"`
	FirstName      string          `json:"Nombre"`
	LastName       string          `json:"Apellido"`
	Document       string          `json:"Documento"`
	Email          string          `json:"Correo"`
	Phone          string          `json:"Telefono"`
	Address        string          `json:"Direccion"`
	Subtotal       decimal.Decimal `json:"Subtotal"`
	Tax            decimal.Decimal `json:"Impuesto"`
	ShippingCost   decimal.Decimal `json:"CostoEnvio"`
	DiscountAmount decimal.Decimal `json:"Descuento"`
	DiscountCode   string          `json:"CodigoDescuento,omitempty"`
	Total          decimal.Decimal `json:"Total"`
	PaymentMethod  string          `json:"MetodoPago"`
	Status         Status          `json:"Estado"`
	Lines          []SaleLine      `json:"Productos"`
}

type SaleLine struct {
	ProductID int             `json:"IdProducto"`
	Name      string          `json:"Nombre"`
	Quantity  int             `json:"Cantidad"`
	UnitPrice decimal.Decimal `json:"PrecioUnitario"`
	LineTotal decimal.Decimal `json:"Subtotal"`
}

// SaleData converts s to the wire document.
func (s Submission) SaleData() SaleData {
	lines := make([]SaleLine, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, SaleLine{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		})
	}
	return SaleData{
		CustomerID:     s.Customer.CustomerID,
		UserID:         s.Customer.UserID,
		FirstName:      s.Customer.FirstName,
		LastName:       s.Customer.LastName,
		Document:       s.Customer.Document,
		Email:          s.Customer.Email,
		Phone:          s.Customer.Phone,
		Address:        s.Customer.Address,
		Subtotal:       s.Subtotal,
		Tax:            s.Tax,
		ShippingCost:   s.ShippingCost,
		DiscountAmount: s.DiscountAmount,
		DiscountCode:   s.DiscountCode,
		Total:          s.Total,
		PaymentMethod:  s.PaymentMethod,
		Status:         s.Status,
		Lines:          lines,
	}
}

// Sale is a stored sale on the order service.
type Sale struct {
	SaleID          int             `json:"ventaId"`
	CustomerID      int             `json:"idCliente"`
	UserID          int             `json:"idUsuario"`
	Data            SaleData        `json:"ventaData"`
	PaymentProofURL string          `json:"comprobanteUrl"`
	Total           decimal.Decimal `json:"total"`
	Status          Status          `json:"estado"`
	CreatedAt       time.Time       `json:"fechaCreacion"`
}
