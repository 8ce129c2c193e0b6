package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/wichananm65/pet-shop-orders/internal/order"
)

// ErrSubmissionRejected means the order service answered success=false.
var ErrSubmissionRejected = errors.New("order service rejected the sale")

type saleResponse struct {
	Success bool   `json:"success"`
	SaleID  int    `json:"ventaId"`
	Message string `json:"message"`
}

// Deliver posts sub to the sale intake endpoint. Transport failures, 5xx
// answers and an open breaker are returned as errors, as is success=false
// (wrapping ErrSubmissionRejected).
func (c *Client) Deliver(ctx context.Context, sub order.Submission) (order.Summary, error) {
	return c.breaker.Execute(func() (order.Summary, error) {
		return c.deliver(ctx, sub)
	})
}

func (c *Client) deliver(ctx context.Context, sub order.Submission) (order.Summary, error) {
	saleData, err := json.Marshal(sub.SaleData())
	if err != nil {
		return order.Summary{}, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("ventaData", string(saleData)); err != nil {
		return order.Summary{}, err
	}
	if err := w.WriteField("comprobanteUrl", sub.PaymentProofRef); err != nil {
		return order.Summary{}, err
	}
	if err := w.Close(); err != nil {
		return order.Summary{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/carrito/crear", nil, &buf)
	if err != nil {
		return order.Summary{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return order.Summary{}, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return order.Summary{}, readStatusError(res)
	}
	var out saleResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return order.Summary{}, fmt.Errorf("decode sale response (%d): %w", res.StatusCode, err)
	}
	if !out.Success || res.StatusCode >= 300 {
		return order.Summary{}, fmt.Errorf("%w: %s", ErrSubmissionRejected, out.Message)
	}
	c.logger.Info("order delivered", "sale_id", out.SaleID, "total", sub.Total.String())
	return order.Summary{SaleID: out.SaleID, Message: out.Message, Submission: sub}, nil
}
