package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

const billColumns = `id, table_id, date_check_in, date_check_out, status, discount, total_amount, final_price, staff_id`

type BillRepo struct {
	db DBTX
}

func (r *BillRepo) getOne(ctx context.Context, query string, args ...any) (*model.Bill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bill: %w", err)
	}

	bill, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Bill])
	if err != nil {
		return nil, notFoundOr(err, "bills")
	}
	return bill, nil
}

func (r *BillRepo) GetByID(ctx context.Context, id int) (*model.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
}

func (r *BillRepo) FindOpenByTable(ctx context.Context, tableID int) (*model.Bill, error) {
	bill, err := r.getOne(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE table_id = $1 AND status = $2
		ORDER BY id
		LIMIT 1`,
		tableID, model.BillUnpaid,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return bill, err
}

func (r *BillRepo) Create(ctx context.Context, tableID int, checkIn time.Time) (*model.Bill, error) {
	return r.getOne(ctx, `
		INSERT INTO bills (table_id, date_check_in, status, discount)
		VALUES ($1, $2, $3, 0)
		RETURNING `+billColumns,
		tableID, checkIn, model.BillUnpaid,
	)
}

func (r *BillRepo) MoveToTable(ctx context.Context, billID, tableID int) error {
	tag, err := r.db.Exec(ctx, `UPDATE bills SET table_id = $2 WHERE id = $1`, billID, tableID)
	return expectOne(tag, err, "bills")
}

func (r *BillRepo) CheckOut(ctx context.Context, c model.CheckOut) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bills
		SET total_amount = $2,
		    final_price = $3,
		    discount = $4,
		    date_check_out = $5,
		    status = $6,
		    staff_id = NULLIF($7::int, 0)
		WHERE id = $1`,
		c.BillID,
		c.TotalAmount,
		c.FinalPrice,
		c.Discount,
		c.DateCheckOut,
		model.BillPaid,
		c.StaffID,
	)
	return expectOne(tag, err, "bills")
}

// Delete removes the bill and, through the cascade, its lines.
func (r *BillRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	return expectOne(tag, err, "bills")
}

func (r *BillRepo) ListPaid(ctx context.Context, from, to time.Time) ([]model.RevenueEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			b.id AS bill_id,
			b.table_id,
			t.name AS table_name,
			b.date_check_in,
			b.date_check_out,
			b.discount,
			COALESCE(b.total_amount, 0) AS total_amount,
			COALESCE(b.final_price, 0) AS final_price,
			COALESCE(a.display_name, '') AS staff_name
		FROM bills b
		JOIN table_foods t ON t.id = b.table_id
		LEFT JOIN accounts a ON a.id = b.staff_id
		WHERE b.status = $1
		  AND b.date_check_out >= $2
		  AND b.date_check_out < $3
		ORDER BY b.date_check_out, b.id`,
		model.BillPaid, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list paid bills: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.RevenueEntry])
}
