package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// setupApp stands in for jwtware: X-User-ID and X-Role become a jwt.Token in
// c.Locals("user").
func setupApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	s := NewService(NewInMemoryRepository(), nil)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id}
				if role := c.Get("X-Role"); role != "" {
					claims["role"] = role
				}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	NewHandler(s).RegisterProtectedRoutes(app)
	return app, s
}

func staffRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-Role", "admin")
	return req
}

func patch(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	res, err := app.Test(staffRequest("PATCH", path, strings.NewReader(body)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return res.StatusCode
}

func TestChangeStatusEndpoint(t *testing.T) {
	app, s := setupApp(t)
	ctx := context.Background()
	review, _ := s.Create(ctx, Notification{Type: TypeProductReview})
	proof, _ := s.Create(ctx, Notification{Type: TypePaymentProof})

	if code := patch(t, app, "/notifications/notificaciones/1/estado", `{"nuevoEstado":"Aprobada"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 approving review %d, got %d", review.ID, code)
	}
	if code := patch(t, app, "/notifications/notificaciones/2/estado", `{"nuevoEstado":"Rechazada","motivo":""}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 rejecting without reason, got %d", code)
	}
	if code := patch(t, app, "/notifications/notificaciones/2/estado", `{"nuevoEstado":"Rechazada","motivo":"monto no coincide"}`); code != fiber.StatusOK {
		t.Fatalf("expected 200 rejecting with reason, got %d", code)
	}
	n, _ := s.Get(ctx, proof.ID)
	if n.Status != StatusRejected || n.RejectionReason == nil || *n.RejectionReason != "monto no coincide" {
		t.Fatalf("unexpected notification after reject: %+v", n)
	}

	if code := patch(t, app, "/notifications/notificaciones/99/read", ``); code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", code)
	}
	if code := patch(t, app, "/notifications/notificaciones/1/estado", `{"nuevoEstado":"Archivada"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 for unknown status, got %d", code)
	}
	if code := patch(t, app, "/notifications/notificaciones/1/estado", `{`); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}
	if code := patch(t, app, "/notifications/notificaciones/1/read", ``); code != fiber.StatusOK {
		t.Fatalf("expected 200 marking read, got %d", code)
	}
	if code := patch(t, app, "/notifications/notificaciones/1/resolve", ``); code != fiber.StatusOK {
		t.Fatalf("expected 200 resolving, got %d", code)
	}
}

func TestListAndCountEndpoints(t *testing.T) {
	app, s := setupApp(t)
	ctx := context.Background()
	_, _ = s.Create(ctx, Notification{Type: TypePaymentProof})
	_, _ = s.Create(ctx, Notification{Type: TypeAppointment})

	res, err := app.Test(staffRequest("GET", "/notifications/notificaciones?tipo=Comprobante", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var list []Notification
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Type != TypePaymentProof {
		t.Fatalf("unexpected list %+v", list)
	}

	res, _ = app.Test(staffRequest("GET", "/notifications/notificaciones/pending-count", nil))
	var count struct {
		Count int `json:"count"`
	}
	_ = json.NewDecoder(res.Body).Decode(&count)
	if count.Count != 2 {
		t.Fatalf("expected 2 pending, got %d", count.Count)
	}

	res, _ = app.Test(staffRequest("POST", "/notifications/notificaciones/mark-all-read", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 from mark-all-read, got %d", res.StatusCode)
	}
	if n, _ := s.PendingCount(ctx); n != 0 {
		t.Fatalf("expected no pending after mark-all-read, got %d", n)
	}
}

func TestDeleteOldEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := app.Test(staffRequest("POST", "/notifications/notificaciones/delete-old", strings.NewReader(`{"days":0}`)))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for days=0, got %d", res.StatusCode)
	}

	res, _ = app.Test(staffRequest("POST", "/notifications/notificaciones/delete-old", strings.NewReader(`{"days":30}`)))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestReviewRoutesNeedAdmin(t *testing.T) {
	app, s := setupApp(t)
	ctx := context.Background()
	proof, _ := s.Create(ctx, Notification{Type: TypePaymentProof})

	shopper := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "42")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return res.StatusCode
	}

	for _, r := range []struct{ method, path, body string }{
		{"PATCH", "/notifications/notificaciones/1/estado", `{"nuevoEstado":"Aprobada"}`},
		{"PATCH", "/notifications/notificaciones/1/read", ``},
		{"PATCH", "/notifications/notificaciones/1/resolve", ``},
		{"POST", "/notifications/notificaciones/mark-all-read", ``},
		{"POST", "/notifications/notificaciones/delete-old", `{"days":1}`},
		{"GET", "/notifications/notificaciones", ``},
		{"GET", "/notifications/notificaciones/1", ``},
	} {
		if code := shopper(r.method, r.path, r.body); code != fiber.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for a shopper, got %d", r.method, r.path, code)
		}
	}
	n, _ := s.Get(ctx, proof.ID)
	if n.Status != StatusPending {
		t.Fatalf("shopper changed the payment proof: %+v", n)
	}

	if code := shopper("GET", "/notifications/notificaciones/pending-count", ``); code != fiber.StatusOK {
		t.Fatalf("expected shoppers to read the pending count, got %d", code)
	}

	res, _ := app.Test(httptest.NewRequest("PATCH", "/notifications/notificaciones/1/estado", strings.NewReader(`{"nuevoEstado":"Aprobada"}`)))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", res.StatusCode)
	}

	if code := patch(t, app, "/notifications/notificaciones/1/estado", `{"nuevoEstado":"Aprobada"}`); code != fiber.StatusOK {
		t.Fatalf("expected admin approval to succeed, got %d", code)
	}
}
