package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int) (*model.Account, error)
	GetByUserName(ctx context.Context, userName string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, account model.Account) (*model.Account, error)
	UpdatePassword(ctx context.Context, id int, hash, salt string) error
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
	SetActive(ctx context.Context, id int, active bool) error
	// FillMissingHash sets hash on every account with the given salt whose
	// stored hash is blank, and reports how many rows changed.
	FillMissingHash(ctx context.Context, salt, hash string) (int64, error)
}

type TableRepository interface {
	GetByID(ctx context.Context, id int) (*model.TableFood, error)
	// ListVisible returns tables whose name does not start with hiddenPrefix.
	ListVisible(ctx context.Context, hiddenPrefix string) ([]model.TableFood, error)
	ListAll(ctx context.Context) ([]model.TableFood, error)
	Create(ctx context.Context, name string, status model.TableStatus) (*model.TableFood, error)
	Rename(ctx context.Context, id int, name string) error
	SetStatus(ctx context.Context, id int, status model.TableStatus) error
	// FillMissingStatus sets status on every table whose status is null or empty.
	FillMissingStatus(ctx context.Context, status model.TableStatus) (int64, error)
	Delete(ctx context.Context, id int) error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id int) (*model.FoodCategory, error)
	List(ctx context.Context) ([]model.FoodCategory, error)
	Create(ctx context.Context, name string) (*model.FoodCategory, error)
	Rename(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) error
}

type FoodRepository interface {
	GetByID(ctx context.Context, id int) (*model.Food, error)
	List(ctx context.Context, filter model.FoodFilter) ([]model.Food, error)
	Create(ctx context.Context, food model.Food) (*model.Food, error)
	Update(ctx context.Context, food model.Food) error
	SetActive(ctx context.Context, id int, active bool) error
}

type BillRepository interface {
	GetByID(ctx context.Context, id int) (*model.Bill, error)
	// FindOpenByTable returns the unpaid bill of a table, or nil when there is none.
	FindOpenByTable(ctx context.Context, tableID int) (*model.Bill, error)
	Create(ctx context.Context, tableID int, checkIn time.Time) (*model.Bill, error)
	MoveToTable(ctx context.Context, billID, tableID int) error
	CheckOut(ctx context.Context, checkOut model.CheckOut) error
	Delete(ctx context.Context, id int) error
	// ListPaid returns bills checked out in [from, to).
	ListPaid(ctx context.Context, from, to time.Time) ([]model.RevenueEntry, error)
}

type BillInfoRepository interface {
	// Find returns the line of food on bill, or nil when there is none.
	Find(ctx context.Context, billID, foodID int) (*model.BillInfo, error)
	ListByBill(ctx context.Context, billID int) ([]model.BillInfo, error)
	// ListItems joins the lines of a bill with their foods.
	ListItems(ctx context.Context, billID int) ([]model.MenuItem, error)
	// AddCount inserts the line or adds count to the existing one.
	AddCount(ctx context.Context, billID, foodID, count int) error
	UpdateCount(ctx context.Context, id, count int) error
	MoveToBill(ctx context.Context, id, billID int) error
	Delete(ctx context.Context, id int) error
	CountByBill(ctx context.Context, billID int) (int, error)
}

// TxFunc runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxFunc func(ctx context.Context, fn func(repos *Repositories) error) error

// Repositories is a container for all repository instances.
type Repositories struct {
	Accounts   AccountRepository
	Tables     TableRepository
	Categories CategoryRepository
	Foods      FoodRepository
	Bills      BillRepository
	BillInfos  BillInfoRepository

	// Tx is nil for repositories that cannot open a transaction.
	Tx TxFunc
}

// InTx runs fn inside a transaction, or directly when r has no TxFunc.
func (r *Repositories) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx(ctx, fn)
}

// NewRepositories builds the PostgreSQL repositories on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewPostgres(s.DB.Pool)
}

// NewPostgres builds the PostgreSQL repositories on db. Nested InTx calls
// become savepoints.
func NewPostgres(db DBTX) *Repositories {
	return &Repositories{
		Accounts:   &AccountRepo{db: db},
		Tables:     &TableRepo{db: db},
		Categories: &CategoryRepo{db: db},
		Foods:      &FoodRepo{db: db},
		Bills:      &BillRepo{db: db},
		BillInfos:  &BillInfoRepo{db: db},
		Tx: func(ctx context.Context, fn func(repos *Repositories) error) error {
			return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
				return fn(NewPostgres(tx))
			})
		},
	}
}
