package migrationrun

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftrs/dos-migration/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type RepoPG struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepoPG stores runs in <schema>.migration_run.
func NewRepoPG(pool *pgxpool.Pool, schema string) *RepoPG {
	return &RepoPG{pool: pool, table: pgx.Identifier{schema, "migration_run"}.Sanitize()}
}

func (r *RepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const runCols = `id, trigger, env, workspace, status, started_at, finished_at,
	total_records, supported_records, unsupported_records, transformed_records,
	migrated_records, skipped_records, invalid_records, errors, error_message`

func (r *RepoPG) scanRow(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Trigger, &run.Env, &run.Workspace, &run.Status, &run.StartedAt, &run.FinishedAt,
		&run.TotalRecords, &run.SupportedRecords, &run.UnsupportedRecords, &run.TransformedRecords,
		&run.MigratedRecords, &run.SkippedRecords, &run.InvalidRecords, &run.Errors, &run.ErrorMessage)
	return &run, err
}

func (r *RepoPG) Create(ctx context.Context, run *Run) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO `+r.table+` (id, trigger, env, workspace, status, started_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		run.ID, run.Trigger, run.Env, run.Workspace, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("insert migration run: %w", err)
	}
	return nil
}

func (r *RepoPG) Update(ctx context.Context, run *Run) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE `+r.table+` SET status=$2, finished_at=$3,
			total_records=$4, supported_records=$5, unsupported_records=$6, transformed_records=$7,
			migrated_records=$8, skipped_records=$9, invalid_records=$10, errors=$11, error_message=$12
		WHERE id = $1`,
		run.ID, run.Status, run.FinishedAt,
		run.TotalRecords, run.SupportedRecords, run.UnsupportedRecords, run.TransformedRecords,
		run.MigratedRecords, run.SkippedRecords, run.InvalidRecords, run.Errors, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("update migration run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	run, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+runCols+` FROM `+r.table+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

func (r *RepoPG) List(ctx context.Context, limit, offset int) ([]*Run, int, error) {
	if limit <= 0 {
		limit = 20
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count migration runs: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+runCols+` FROM `+r.table+` ORDER BY started_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list migration runs: %w", err)
	}
	defer rows.Close()
	var items []*Run
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, run)
	}
	return items, total, rows.Err()
}
