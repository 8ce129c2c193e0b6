package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/wichananm65/pet-shop-orders/internal/notification"
)

const notificationsPath = "/notifications/notificaciones"

func (c *Client) ListNotifications(ctx context.Context, f notification.Filter) ([]notification.Notification, error) {
	q := url.Values{}
	if len(f.Types) > 0 {
		parts := make([]string, len(f.Types))
		for i, t := range f.Types {
			parts[i] = string(t)
		}
		q.Set("tipo", strings.Join(parts, ","))
	}
	if len(f.Statuses) > 0 {
		parts := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			parts[i] = string(s)
		}
		q.Set("estado", strings.Join(parts, ","))
	}
	var out []notification.Notification
	if err := c.doJSON(ctx, http.MethodGet, notificationsPath, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, id int) (notification.Notification, error) {
	var n notification.Notification
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%d/read", notificationsPath, id), nil, nil, &n)
	return n, err
}

func (c *Client) Resolve(ctx context.Context, id int) (notification.Notification, error) {
	var n notification.Notification
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%d/resolve", notificationsPath, id), nil, nil, &n)
	return n, err
}

func (c *Client) ChangeStatus(ctx context.Context, id int, to notification.Status, reason string) (notification.Notification, error) {
	body := map[string]string{"nuevoEstado": string(to)}
	if reason != "" {
		body["motivo"] = reason
	}
	var n notification.Notification
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%d/estado", notificationsPath, id), nil, body, &n)
	return n, err
}

func (c *Client) MarkAllRead(ctx context.Context) (int, error) {
	var out struct {
		Updated int `json:"updated"`
	}
	err := c.doJSON(ctx, http.MethodPost, notificationsPath+"/mark-all-read", nil, nil, &out)
	return out.Updated, err
}

func (c *Client) DeleteOld(ctx context.Context, days int) (int, error) {
	var out struct {
		Deleted int `json:"deleted"`
	}
	err := c.doJSON(ctx, http.MethodPost, notificationsPath+"/delete-old", nil, map[string]int{"days": days}, &out)
	return out.Deleted, err
}

func (c *Client) PendingCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.doJSON(ctx, http.MethodGet, notificationsPath+"/pending-count", nil, nil, &out)
	return out.Count, err
}
