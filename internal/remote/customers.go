package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wichananm65/pet-shop-orders/internal/customer"
)

// FetchCustomer loads the customer record linked to userID using the
// shopper's own token. A 404 maps to customer.ErrNotFound.
func (c *Client) FetchCustomer(ctx context.Context, token string, userID int) (customer.Record, error) {
	var rec customer.Record
	err := c.WithBearer(token).doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/customers/usuario/%d", userID), nil, nil, &rec)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return customer.Record{}, customer.ErrNotFound
	}
	if err != nil {
		return customer.Record{}, err
	}
	if rec.UserID == 0 {
		rec.UserID = userID
	}
	return rec, nil
}
