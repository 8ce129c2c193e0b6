package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	notificationColumns = `notification_id, type, status, title, message, reference_id, created_at, viewed_at, resolved_at, rejection_reason`

	insertNotificationQuery = `
		INSERT INTO notifications (type, status, title, message, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING notification_id
	`
	getNotificationQuery = `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id = $1`

	// NULL arrays disable the corresponding filter.
	listNotificationsQuery = `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE ($1::text[] IS NULL OR type = ANY($1))
		  AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC, notification_id DESC`

	saveStatusQuery = `
		UPDATE notifications
		SET status = $2, viewed_at = $3, resolved_at = $4, rejection_reason = $5
		WHERE notification_id = $1
	`
	deleteCreatedBeforeQuery = `DELETE FROM notifications WHERE created_at < $1`
	countByStatusQuery       = `SELECT COUNT(*) FROM notifications WHERE status = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (Notification, error) {
	var (
		n        Notification
		ref      sql.NullInt64
		viewed   sql.NullTime
		resolved sql.NullTime
		reason   sql.NullString
	)
	err := row.Scan(&n.ID, &n.Type, &n.Status, &n.Title, &n.Message, &ref, &n.CreatedAt, &viewed, &resolved, &reason)
	if err != nil {
		return Notification{}, err
	}
	if ref.Valid {
		id := int(ref.Int64)
		n.ReferenceID = &id
	}
	if viewed.Valid {
		n.ViewedAt = &viewed.Time
	}
	if resolved.Valid {
		n.ResolvedAt = &resolved.Time
	}
	if reason.Valid {
		n.RejectionReason = &reason.String
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, n Notification) (Notification, error) {
	err := r.db.QueryRowContext(ctx, insertNotificationQuery,
		n.Type, n.Status, n.Title, n.Message, n.ReferenceID, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, getNotificationQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, listNotificationsQuery, textArray(f.Types), textArray(f.Statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveStatus(ctx context.Context, n Notification) error {
	res, err := r.db.ExecContext(ctx, saveStatusQuery, n.ID, n.Status, n.ViewedAt, n.ResolvedAt, n.RejectionReason)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, deleteCreatedBeforeQuery, cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, countByStatusQuery, status).Scan(&count)
	return count, err
}

// textArray converts a filter set to a Postgres text[]; an empty set becomes NULL.
func textArray[T ~string](values []T) any {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return pq.Array(out)
}
