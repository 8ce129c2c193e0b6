package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"code":"TEOCAT10"}`))
	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("cart.discount").WillReturnRows(rows)

	got, err := store.Get(context.Background(), "cart.discount")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if string(got) != `{"code":"TEOCAT10"}` {
		t.Fatalf("unexpected value %s", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("nope").WillReturnRows(sqlmock.NewRows([]string{"value"}))

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_SetAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO kv_store").WithArgs("cart.items", `[]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM kv_store").WithArgs("cart.items").WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	if err := store.Set(ctx, "cart.items", []byte(`[]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Delete(ctx, "cart.items"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
