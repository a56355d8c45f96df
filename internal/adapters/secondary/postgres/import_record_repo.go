package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const importRecordSchema = `
	CREATE TABLE IF NOT EXISTS model_import (
		id               UUID PRIMARY KEY,
		created_at       TIMESTAMPTZ NOT NULL,
		model_id         TEXT NOT NULL,
		model_name       TEXT NOT NULL,
		project_id       TEXT NOT NULL,
		project_name     TEXT NOT NULL,
		project_version  TEXT NOT NULL,
		platform_version TEXT NOT NULL,
		score_code       BOOLEAN NOT NULL DEFAULT FALSE,
		overwrote        BOOLEAN NOT NULL DEFAULT FALSE,
		file_count       INTEGER NOT NULL DEFAULT 0,
		request_id       TEXT
	);
	CREATE INDEX IF NOT EXISTS model_import_project_idx ON model_import (project_name, created_at DESC);
`

type importRecordRepo struct {
	pool *pgxpool.Pool
}

func NewImportRecordRepository(pool *pgxpool.Pool) ports.ImportRecordRepository {
	return &importRecordRepo{pool: pool}
}

// EnsureSchema creates the model_import table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, importRecordSchema); err != nil {
		return fmt.Errorf("create model_import table: %w", err)
	}
	return nil
}

func (r *importRecordRepo) Create(ctx context.Context, rec *domain.ImportRecord) error {
	query := `
		INSERT INTO model_import
			(id, created_at, model_id, model_name, project_id, project_name,
			 project_version, platform_version, score_code, overwrote, file_count, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.CreatedAt, rec.ModelID, rec.ModelName, rec.ProjectID, rec.ProjectName,
		rec.ProjectVersion, rec.PlatformVersion, rec.ScoreCode, rec.Overwrote, rec.FileCount,
		nullIfEmpty(rec.RequestID),
	)
	if err != nil {
		return fmt.Errorf("create import record: %w", err)
	}
	return nil
}

func (r *importRecordRepo) List(ctx context.Context, filter ports.ImportListFilter) ([]*domain.ImportRecord, int, error) {
	whereClause, args := importFilter(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM model_import WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count import records: %w", err)
	}

	argPos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT id, created_at, model_id, model_name, project_id, project_name,
			   project_version, platform_version, score_code, overwrote, file_count,
			   COALESCE(request_id, '')
		FROM model_import
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list import records: %w", err)
	}
	defer rows.Close()

	records := []*domain.ImportRecord{}
	for rows.Next() {
		rec := &domain.ImportRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.ModelID, &rec.ModelName, &rec.ProjectID, &rec.ProjectName,
			&rec.ProjectVersion, &rec.PlatformVersion, &rec.ScoreCode, &rec.Overwrote, &rec.FileCount,
			&rec.RequestID,
		); err != nil {
			return nil, 0, fmt.Errorf("scan import record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate import records: %w", err)
	}
	return records, total, nil
}

func importFilter(filter ports.ImportListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectName != "" {
		conditions = append(conditions, fmt.Sprintf("project_name = $%d", argPos))
		args = append(args, filter.ProjectName)
		argPos++
	}
	if filter.ModelName != "" {
		conditions = append(conditions, fmt.Sprintf("model_name ILIKE $%d", argPos))
		args = append(args, "%"+filter.ModelName+"%")
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}
	return whereClause, args
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
