package health

import (
	"context"
	"database/sql"
	"time"

	"docverify-backend/internal/shared/storage/db"
)

const defaultTimeout = 2 * time.Second

// Report is the health payload.
type Report struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB      *sql.DB
	Timeout time.Duration
}

// NewService constructs a new health service. database may be nil when the
// process runs on in-memory repositories.
func NewService(database *sql.DB) *Service {
	return &Service{DB: database, Timeout: defaultTimeout}
}

// Status pings the database when one is configured.
func (s *Service) Status(ctx context.Context) Report {
	if s == nil || s.DB == nil {
		return Report{OK: true, Database: "disabled"}
	}
	if err := db.Ping(ctx, s.DB, s.Timeout); err != nil {
		return Report{OK: false, Database: "unavailable"}
	}
	return Report{OK: true, Database: "ok"}
}
