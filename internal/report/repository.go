package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/database"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// RunRecord is one review run's outcome for the run history.
type RunRecord struct {
	TradeDate  string    `json:"trade_date"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	LimitUps   int       `json:"limit_ups"`
	Error      string    `json:"error,omitempty"`
}

// Repository persists runs and reports to Postgres. All methods are no-ops
// when no database is configured, the files on disk stay the primary
// output.
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates a repository. db may be nil.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Enabled reports whether persistence is active.
func (r *Repository) Enabled() bool {
	return r != nil && r.db != nil
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS review_runs (
	id          BIGSERIAL PRIMARY KEY,
	trade_date  DATE NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	success     BOOLEAN NOT NULL,
	limit_ups   INT NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS review_reports (
	trade_date   DATE PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	config_hash  TEXT NOT NULL DEFAULT '',
	empty_report BOOLEAN NOT NULL,
	payload      JSONB NOT NULL
);
`

// Migrate creates the tables when persistence is enabled.
func (r *Repository) Migrate(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	if _, err := r.db.Pool.Exec(ctx, createTablesSQL); err != nil {
		return fmt.Errorf("failed to create review tables: %w", err)
	}
	return nil
}

// SaveRun appends a run record.
func (r *Repository) SaveRun(ctx context.Context, run RunRecord) error {
	if !r.Enabled() {
		return nil
	}

	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO review_runs (trade_date, started_at, finished_at, success, limit_ups, error)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.TradeDate, run.StartedAt, run.FinishedAt, run.Success, run.LimitUps, run.Error)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// SaveReport upserts the day's report JSON. Re-running a day replaces the
// previous report.
func (r *Repository) SaveReport(ctx context.Context, report *contracts.StrategyReport) error {
	if !r.Enabled() {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO review_reports (trade_date, generated_at, config_hash, empty_report, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (trade_date) DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			config_hash  = EXCLUDED.config_hash,
			empty_report = EXCLUDED.empty_report,
			payload      = EXCLUDED.payload`,
		report.Meta.TradeDate, report.Meta.GeneratedAt, report.Meta.ConfigHash,
		report.Meta.EmptyReport, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}
