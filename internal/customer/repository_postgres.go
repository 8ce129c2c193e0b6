package customer

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCustomerByUserQuery = `
		SELECT customer_id, user_id, first_name, last_name, document, email, phone, address
		FROM customers
		WHERE user_id = $1
	`
	upsertCustomerQuery = `
		INSERT INTO customers (user_id, first_name, last_name, document, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			document = EXCLUDED.document,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address
		RETURNING customer_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int) (Record, error) {
	var rec Record
	err := r.db.QueryRowContext(ctx, getCustomerByUserQuery, userID).Scan(
		&rec.CustomerID, &rec.UserID, &rec.FirstName, &rec.LastName, &rec.Document, &rec.Email, &rec.Phone, &rec.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec Record) (Record, error) {
	err := r.db.QueryRowContext(ctx, upsertCustomerQuery,
		rec.UserID, rec.FirstName, rec.LastName, rec.Document, rec.Email, rec.Phone, rec.Address).Scan(&rec.CustomerID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
