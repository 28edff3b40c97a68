package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

type CategoryRepo struct {
	db DBTX
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int) (*model.FoodCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM food_categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	category, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.FoodCategory])
	if err != nil {
		return nil, notFoundOr(err, "food_categories")
	}
	return category, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]model.FoodCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM food_categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.FoodCategory])
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (*model.FoodCategory, error) {
	rows, err := r.db.Query(ctx, `INSERT INTO food_categories (name) VALUES ($1) RETURNING id, name`, name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.FoodCategory])
}

func (r *CategoryRepo) Rename(ctx context.Context, id int, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE food_categories SET name = $2 WHERE id = $1`, id, name)
	return expectOne(tag, err, "food_categories")
}

// Delete fails with a foreign key violation while foods reference the category.
func (r *CategoryRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM food_categories WHERE id = $1`, id)
	return expectOne(tag, err, "food_categories")
}

const foodColumns = `id, name, category_id, price, unit, is_active`

type FoodRepo struct {
	db DBTX
}

func (r *FoodRepo) GetByID(ctx context.Context, id int) (*model.Food, error) {
	rows, err := r.db.Query(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}

	food, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Food])
	if err != nil {
		return nil, notFoundOr(err, "foods")
	}
	return food, nil
}

func (r *FoodRepo) List(ctx context.Context, filter model.FoodFilter) ([]model.Food, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		WHERE ($1::int IS NULL OR category_id = $1)
		  AND ($2 OR is_active)
		ORDER BY category_id, name, id`,
		filter.CategoryID,
		filter.IncludeInactive,
	)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Food])
}

func (r *FoodRepo) Create(ctx context.Context, food model.Food) (*model.Food, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO foods (name, category_id, price, unit, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+foodColumns,
		food.Name,
		food.CategoryID,
		food.Price,
		food.Unit,
		food.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Food])
}

func (r *FoodRepo) Update(ctx context.Context, food model.Food) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE foods
		SET name = $2, category_id = $3, price = $4, unit = $5, is_active = $6
		WHERE id = $1`,
		food.ID,
		food.Name,
		food.CategoryID,
		food.Price,
		food.Unit,
		food.IsActive,
	)
	return expectOne(tag, err, "foods")
}

func (r *FoodRepo) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE foods SET is_active = $2 WHERE id = $1`, id, active)
	return expectOne(tag, err, "foods")
}
