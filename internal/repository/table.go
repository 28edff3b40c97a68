package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

// status may be NULL on tables created by older clients.
const tableColumns = `id, name, COALESCE(status, '') AS status`

type TableRepo struct {
	db DBTX
}

func (r *TableRepo) list(ctx context.Context, query string, args ...any) ([]model.TableFood, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.TableFood])
}

func (r *TableRepo) GetByID(ctx context.Context, id int) (*model.TableFood, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tableColumns+` FROM table_foods WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}

	table, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.TableFood])
	if err != nil {
		return nil, notFoundOr(err, "tables")
	}
	return table, nil
}

func (r *TableRepo) ListVisible(ctx context.Context, hiddenPrefix string) ([]model.TableFood, error) {
	return r.list(ctx, `
		SELECT `+tableColumns+`
		FROM table_foods
		WHERE name IS NOT NULL AND left(name, char_length($1)) <> $1
		ORDER BY id`,
		hiddenPrefix,
	)
}

func (r *TableRepo) ListAll(ctx context.Context) ([]model.TableFood, error) {
	return r.list(ctx, `SELECT `+tableColumns+` FROM table_foods ORDER BY id`)
}

func (r *TableRepo) Create(ctx context.Context, name string, status model.TableStatus) (*model.TableFood, error) {
	rows, err := r.db.Query(ctx, `INSERT INTO table_foods (name, status) VALUES ($1, $2) RETURNING `+tableColumns, name, status)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.TableFood])
}

func (r *TableRepo) Rename(ctx context.Context, id int, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE table_foods SET name = $2 WHERE id = $1`, id, name)
	return expectOne(tag, err, "tables")
}

func (r *TableRepo) SetStatus(ctx context.Context, id int, status model.TableStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE table_foods SET status = $2 WHERE id = $1`, id, status)
	return expectOne(tag, err, "tables")
}

func (r *TableRepo) FillMissingStatus(ctx context.Context, status model.TableStatus) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE table_foods SET status = $1 WHERE status IS NULL OR status = ''`, status)
	if err != nil {
		return 0, fmt.Errorf("fill missing table status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TableRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM table_foods WHERE id = $1`, id)
	return expectOne(tag, err, "tables")
}
