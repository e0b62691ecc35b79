package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const clientColumns = `id, full_name, email, phone, created_at, updated_at`

// Create inserts a new client.
func (r *PGRepo) Create(ctx context.Context, client Client) error {
	const query = `
INSERT INTO clients (id, full_name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		client.ID,
		client.FullName,
		client.Email,
		nullableString(client.Phone),
		client.CreatedAt,
		client.UpdatedAt,
	)
	return mapWriteError(err)
}

// GetByID fetches a client by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 LIMIT 1`
	client, err := scanClient(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

// List returns clients newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 35
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where, args := searchClause(filter.Search)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT %s
FROM clients
%s
ORDER BY created_at DESC, id
LIMIT $%d OFFSET $%d`, clientColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, client)
	}
	return out, rows.Err()
}

// Count returns the number of clients matching the filter.
func (r *PGRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := searchClause(filter.Search)
	query := `SELECT COUNT(*) FROM clients ` + where
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update overwrites the mutable client fields.
func (r *PGRepo) Update(ctx context.Context, client Client) error {
	const query = `
UPDATE clients
SET full_name = $1, email = $2, phone = $3, updated_at = $4
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query,
		client.FullName,
		client.Email,
		nullableString(client.Phone),
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(res)
}

// Delete removes a client; transactions referencing it cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var client Client
	var phone sql.NullString
	if err := row.Scan(
		&client.ID,
		&client.FullName,
		&client.Email,
		&phone,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return Client{}, err
	}
	if phone.Valid {
		client.Phone = phone.String
	}
	return client, nil
}

func searchClause(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	return `WHERE full_name ILIKE $1 OR email ILIKE $1`, []any{"%" + search + "%"}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
