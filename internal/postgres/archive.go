// Package postgres holds the PostgreSQL-backed order archive, used when
// ORDER_ARCHIVE_DRIVER=postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okonkwolabs/kasuwa/internal/archive"
	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// Archive implements archive.Archive over a pgx connection pool. The
// full snapshot is stored as jsonb so the schema never chases the
// snapshot shape; indexed columns cover the lookups.
type Archive struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure Archive implements archive.Archive.
var _ archive.Archive = (*Archive)(nil)

// NewArchive creates a PostgreSQL-backed order archive.
func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

func (a *Archive) Append(ctx context.Context, snapshot domain.OrderSnapshot) error {
	const op = "postgres.Archive.Append"

	data, err := json.Marshal(snapshot)
	if err != nil {
		return &domain.Error{Code: domain.EINTERNAL, Message: "Failed to encode order", Op: op, Err: err}
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO orders (id, number, placed_at, snapshot) VALUES ($1, $2, $3, $4)`,
		snapshot.ID, snapshot.Number, snapshot.PlacedAt, data)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &domain.Error{Code: domain.ECONFLICT, Message: fmt.Sprintf("Order %s already archived", snapshot.ID), Op: op}
		}
		return &domain.Error{Code: domain.EINTERNAL, Message: "Failed to archive order", Op: op, Err: err}
	}
	return nil
}

func (a *Archive) Latest(ctx context.Context) (*domain.OrderSnapshot, error) {
	const op = "postgres.Archive.Latest"

	row := a.pool.QueryRow(ctx,
		`SELECT snapshot FROM orders ORDER BY placed_at DESC, id DESC LIMIT 1`)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoOrders
		}
		return nil, &domain.Error{Code: domain.EINTERNAL, Message: "Failed to read latest order", Op: op, Err: err}
	}
	return snapshot, nil
}

func (a *Archive) List(ctx context.Context) ([]domain.OrderSnapshot, error) {
	const op = "postgres.Archive.List"

	rows, err := a.pool.Query(ctx,
		`SELECT snapshot FROM orders ORDER BY placed_at ASC, id ASC`)
	if err != nil {
		return nil, &domain.Error{Code: domain.EINTERNAL, Message: "Failed to list orders", Op: op, Err: err}
	}
	defer rows.Close()

	var orders []domain.OrderSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, &domain.Error{Code: domain.EINTERNAL, Message: "Failed to decode order", Op: op, Err: err}
		}
		orders = append(orders, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.Error{Code: domain.EINTERNAL, Message: "Failed to list orders", Op: op, Err: err}
	}
	return orders, nil
}

func (a *Archive) Get(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	const op = "postgres.Archive.Get"

	row := a.pool.QueryRow(ctx, `SELECT snapshot FROM orders WHERE id = $1`, id)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, &domain.Error{Code: domain.EINTERNAL, Message: "Failed to read order", Op: op, Err: err}
	}
	return snapshot, nil
}

func scanSnapshot(row pgx.Row) (*domain.OrderSnapshot, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, err
	}
	var snapshot domain.OrderSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
