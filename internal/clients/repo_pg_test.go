package clients

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateStoresNullPhone(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	client := Client{ID: "c-1", FullName: "Jane Doe", Email: "jane@example.com", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO clients").
		WithArgs(client.ID, client.FullName, client.Email, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), client); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO clients").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"})

	err := repo.Create(context.Background(), Client{ID: "c-1", FullName: "Jane", Email: "jane@example.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "created_at", "updated_at"}).
		AddRow("c-1", "Jane Doe", "jane@example.com", "+34600000000", now, now)
	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id = \\$1").
		WithArgs("c-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Phone != "+34600000000" || got.Email != "jane@example.com" {
		t.Fatalf("unexpected client: %+v", got)
	}

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListWithSearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "created_at", "updated_at"}).
		AddRow("c-1", "Jane Doe", "jane@example.com", nil, now, now)
	mock.ExpectQuery("FROM clients\\s+WHERE full_name ILIKE \\$1 OR email ILIKE \\$1\\s+ORDER BY created_at DESC, id\\s+LIMIT \\$2 OFFSET \\$3").
		WithArgs("%jane%", 10, 20).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), ListFilter{Search: " jane ", Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Phone != "" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateAndDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE clients").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Update(context.Background(), Client{ID: "c-1", FullName: "x", Email: "x@example.com"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	mock.ExpectExec("DELETE FROM clients").WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "c-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}
