package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var notificationCols = []string{"notification_id", "type", "status", "title", "message", "reference_id", "created_at", "viewed_at", "resolved_at", "rejection_reason"}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(notificationCols).
		AddRow(1, "Comprobante", "Rechazada", "Comprobante", "venta 7", 7, created, nil, created, "ilegible").
		AddRow(2, "Comprobante", "Pendiente", "Comprobante", "venta 8", nil, created, nil, nil, nil)
	mock.ExpectQuery("FROM notifications").WithArgs(sqlmock.AnyArg(), nil).WillReturnRows(rows)

	list, err := repo.List(context.Background(), Filter{Types: []Type{TypePaymentProof}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list))
	}
	if list[0].ReferenceID == nil || *list[0].ReferenceID != 7 || list[0].RejectionReason == nil {
		t.Fatalf("nullable columns not mapped: %+v", list[0])
	}
	if list[1].ReferenceID != nil || list[1].ResolvedAt != nil {
		t.Fatalf("expected NULL columns to stay nil: %+v", list[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSaveStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE notifications").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveStatus(context.Background(), Notification{ID: 5, Status: StatusViewed})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDeleteCreatedBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM notifications").WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteCreatedBefore(context.Background(), cutoff)
	if err != nil || deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d (%v)", deleted, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
