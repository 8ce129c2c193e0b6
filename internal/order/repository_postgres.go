package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertSaleQuery = `
		INSERT INTO sales (customer_id, user_id, payload, payment_proof_url, total, status, created_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7)
		RETURNING sale_id
	`
	getSaleQuery = `
		SELECT sale_id, customer_id, user_id, payload, payment_proof_url, total, status, created_at
		FROM sales
		WHERE sale_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, sale Sale) (Sale, error) {
	payload, err := json.Marshal(sale.Data)
	if err != nil {
		return Sale{}, err
	}
	err = r.db.QueryRowContext(ctx, insertSaleQuery,
		sale.CustomerID, sale.UserID, string(payload), sale.PaymentProofURL, sale.Total, sale.Status, sale.CreatedAt).
		Scan(&sale.SaleID)
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Sale, error) {
	var (
		sale    Sale
		payload []byte
	)
	err := r.db.QueryRowContext(ctx, getSaleQuery, id).Scan(
		&sale.SaleID, &sale.CustomerID, &sale.UserID, &payload, &sale.PaymentProofURL, &sale.Total, &sale.Status, &sale.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}
	if err := json.Unmarshal(payload, &sale.Data); err != nil {
		return Sale{}, err
	}
	return sale, nil
}
