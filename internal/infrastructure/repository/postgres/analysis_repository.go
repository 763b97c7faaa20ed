package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS bim_analyses (
	id TEXT PRIMARY KEY,
	model_urn TEXT NOT NULL,
	model_name TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	status TEXT NOT NULL,
	total_carbon_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
	result JSONB,
	alternatives JSONB NOT NULL DEFAULT '[]'::jsonb,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_bim_analyses_status ON bim_analyses(status);
CREATE INDEX IF NOT EXISTS idx_bim_analyses_owner ON bim_analyses(owner_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, job *domain.AnalysisJob) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bim_analyses (
	id, model_urn, model_name, owner_id, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		job.ID, job.ModelURN, job.ModelName, job.OwnerID, string(job.Status), job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, model_urn, model_name, owner_id, status, total_carbon_kg, result, alternatives, error_message, created_at, updated_at, completed_at
FROM bim_analyses
WHERE id = $1
`, id)

	var job domain.AnalysisJob
	var status string
	var resultRaw []byte
	var alternativesRaw []byte
	var errMessage sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.ModelURN, &job.ModelName, &job.OwnerID, &status, &job.TotalCarbonKg,
		&resultRaw, &alternativesRaw, &errMessage, &job.CreatedAt, &job.UpdatedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%s", domain.ErrAnalysisNotFound, id)
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	job.Status = domain.AnalysisStatus(status)
	if errMessage.Valid {
		job.ErrorMessage = errMessage.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	if len(resultRaw) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal analysis result: %w", err)
		}
		job.Result = &result
	}
	if len(alternativesRaw) > 0 {
		if err := json.Unmarshal(alternativesRaw, &job.Alternatives); err != nil {
			return nil, fmt.Errorf("unmarshal alternatives: %w", err)
		}
	}
	return &job, nil
}

// Complete flips a processing job to completed with its result payload. The
// status guard in the WHERE clause keeps terminal jobs immutable.
func (r *AnalysisRepository) Complete(ctx context.Context, id string, result domain.AnalysisResult, alternatives []domain.Alternative, completedAt time.Time) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	if alternatives == nil {
		alternatives = []domain.Alternative{}
	}
	alternativesJSON, err := json.Marshal(alternatives)
	if err != nil {
		return fmt.Errorf("marshal alternatives: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE bim_analyses
SET status = $2, total_carbon_kg = $3, result = $4, alternatives = $5, completed_at = $6, updated_at = $7
WHERE id = $1 AND status = $8
`, id, string(domain.StatusCompleted), result.Breakdown.TotalKg, resultJSON, alternativesJSON,
		completedAt, time.Now().UTC(), string(domain.StatusProcessing))
	if err != nil {
		return fmt.Errorf("complete analysis: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete analysis rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no processing analysis with id=%s", domain.ErrAnalysisNotFound, id)
	}
	return nil
}

// Fail flips a processing job to failed. Same one-way guard as Complete.
func (r *AnalysisRepository) Fail(ctx context.Context, id string, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE bim_analyses
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1 AND status = $5
`, id, string(domain.StatusFailed), errMessage, time.Now().UTC(), string(domain.StatusProcessing))
	if err != nil {
		return fmt.Errorf("fail analysis: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fail analysis rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no processing analysis with id=%s", domain.ErrAnalysisNotFound, id)
	}
	return nil
}
