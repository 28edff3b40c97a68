package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

type BillInfoRepo struct {
	db DBTX
}

func (r *BillInfoRepo) Find(ctx context.Context, billID, foodID int) (*model.BillInfo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, bill_id, food_id, count FROM bill_infos WHERE bill_id = $1 AND food_id = $2`, billID, foodID)
	if err != nil {
		return nil, fmt.Errorf("find bill line: %w", err)
	}

	info, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.BillInfo])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return info, err
}

func (r *BillInfoRepo) ListByBill(ctx context.Context, billID int) ([]model.BillInfo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, bill_id, food_id, count FROM bill_infos WHERE bill_id = $1 ORDER BY id`, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill lines: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.BillInfo])
}

func (r *BillInfoRepo) ListItems(ctx context.Context, billID int) ([]model.MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			f.id AS food_id,
			f.name,
			f.price,
			bi.count,
			bi.count * f.price AS total
		FROM bill_infos bi
		JOIN foods f ON f.id = bi.food_id
		WHERE bi.bill_id = $1
		ORDER BY bi.id`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.MenuItem])
}

func (r *BillInfoRepo) AddCount(ctx context.Context, billID, foodID, count int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bill_infos (bill_id, food_id, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (bill_id, food_id)
		DO UPDATE SET count = bill_infos.count + EXCLUDED.count`,
		billID, foodID, count,
	)
	if err != nil {
		return fmt.Errorf("add bill line: %w", err)
	}
	return nil
}

func (r *BillInfoRepo) UpdateCount(ctx context.Context, id, count int) error {
	tag, err := r.db.Exec(ctx, `UPDATE bill_infos SET count = $2 WHERE id = $1`, id, count)
	return expectOne(tag, err, "bill_infos")
}

func (r *BillInfoRepo) MoveToBill(ctx context.Context, id, billID int) error {
	tag, err := r.db.Exec(ctx, `UPDATE bill_infos SET bill_id = $2 WHERE id = $1`, id, billID)
	return expectOne(tag, err, "bill_infos")
}

func (r *BillInfoRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bill_infos WHERE id = $1`, id)
	return expectOne(tag, err, "bill_infos")
}

func (r *BillInfoRepo) CountByBill(ctx context.Context, billID int) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bill_infos WHERE bill_id = $1`, billID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bill lines: %w", err)
	}
	return n, nil
}
