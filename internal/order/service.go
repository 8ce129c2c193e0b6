package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wichananm65/pet-shop-orders/internal/notification"
)

var (
	ErrNoLines          = errors.New("sale has no products")
	ErrMissingProof     = errors.New("payment proof is required")
	ErrInvalidSaleTotal = errors.New("sale totals are invalid")
	ErrUnexpectedStatus = errors.New("sales must be submitted as Pendiente")
)

// Notifier raises the review record for a received payment proof.
type Notifier interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
}

// Service records incoming sales on the order service.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(r Repository, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: r, notifier: notifier, logger: logger, now: time.Now}
}

// Create stores the sale and raises a Comprobante notification that
// references it.
func (s *Service) Create(ctx context.Context, data SaleData, proofURL string) (Sale, error) {
	if len(data.Lines) == 0 {
		return Sale{}, ErrNoLines
	}
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return Sale{}, ErrMissingProof
	}
	if data.Status == "" {
		data.Status = StatusPending
	}
	if data.Status != StatusPending {
		return Sale{}, fmt.Errorf("%w: got %q", ErrUnexpectedStatus, data.Status)
	}
	if data.Total.IsNegative() || data.Subtotal.IsNegative() {
		return Sale{}, ErrInvalidSaleTotal
	}
	if want := data.Subtotal.Add(data.Tax).Add(data.ShippingCost).Sub(data.DiscountAmount); !data.Total.Equal(want) {
		return Sale{}, fmt.Errorf("%w: total %s, expected %s", ErrInvalidSaleTotal, data.Total.String(), want.String())
	}
	if data.PaymentMethod == "" {
		data.PaymentMethod = DefaultPaymentMethod
	}

	sale, err := s.repo.Create(ctx, Sale{
		CustomerID:      data.CustomerID,
		UserID:          data.UserID,
		Data:            data,
		PaymentProofURL: proofURL,
		Total:           data.Total,
		Status:          data.Status,
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return Sale{}, fmt.Errorf("create sale: %w", err)
	}
	s.logger.Info("sale received", "sale_id", sale.SaleID, "customer_id", sale.CustomerID, "total", sale.Total.String())

	if s.notifier != nil {
		ref := sale.SaleID
		_, err := s.notifier.Create(ctx, notification.Notification{
			Type:        notification.TypePaymentProof,
			Title:       fmt.Sprintf("Comprobante de venta #%d", sale.SaleID),
			Message:     fmt.Sprintf("%s %s adjuntó un comprobante por %s", data.FirstName, data.LastName, data.Total.StringFixed(2)),
			ReferenceID: &ref,
		})
		if err != nil {
			// the sale is recorded; the review record can be raised by hand
			s.logger.Error("payment proof notification failed", "sale_id", sale.SaleID, "error", err)
		}
	}
	return sale, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Sale, error) {
	return s.repo.GetByID(ctx, id)
}
