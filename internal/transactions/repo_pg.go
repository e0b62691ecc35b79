package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"docverify-backend/internal/imaging"
)

const foreignKeyViolation = "23503"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const transactionColumns = `id, client_id, image_frontside, image_backside, result, error_code, details, created_at`

// Create inserts the full record in a single statement.
func (r *PGRepo) Create(ctx context.Context, tx Transaction) error {
	const query = `
INSERT INTO transactions (id, client_id, image_frontside, image_backside, result, error_code, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		tx.ID,
		tx.ClientID,
		nullableString(tx.FrontsideKey),
		nullableString(tx.BacksideKey),
		tx.Result,
		nullableCode(tx.ErrorCode),
		nullableString(tx.Details),
		tx.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

// GetByID fetches a transaction by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 LIMIT 1`
	tx, err := scanTransaction(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

// List returns transactions newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 35
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where, args := filterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT %s
FROM transactions
%s
ORDER BY created_at DESC, id
LIMIT $%d OFFSET $%d`, transactionColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Count returns the number of transactions matching the filter.
func (r *PGRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a transaction row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		tx        Transaction
		front     sql.NullString
		back      sql.NullString
		errorCode sql.NullInt64
		details   sql.NullString
	)
	if err := row.Scan(
		&tx.ID,
		&tx.ClientID,
		&front,
		&back,
		&tx.Result,
		&errorCode,
		&details,
		&tx.CreatedAt,
	); err != nil {
		return Transaction{}, err
	}
	tx.FrontsideKey = front.String
	tx.BacksideKey = back.String
	if errorCode.Valid {
		tx.ErrorCode = imaging.ErrorCode(errorCode.Int64)
	}
	tx.Details = details.String
	return tx, nil
}

func filterClause(filter ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Result != nil {
		args = append(args, *filter.Result)
		conds = append(conds, fmt.Sprintf("result = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableCode(code imaging.ErrorCode) any {
	if code == 0 {
		return nil
	}
	return int64(code)
}

var _ Repo = (*PGRepo)(nil)
