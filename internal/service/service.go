// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated input, services apply the restaurant rules and persist the
// result through the repositories. Failures a client can act on are
// returned as *errs.HTTPError; the sentinels live in errors.go.
package service

import (
	"context"
	"time"

	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

// now is replaced in tests.
var now = time.Now

// ReceiptQueue schedules the receipt e-mail of a paid bill.
type ReceiptQueue interface {
	EnqueueBillReceipt(ctx context.Context, billID int, to string) error
}

type Services struct {
	Accounts *AccountService
	Tables   *TableService
	Bills    *BillService
	Catalog  *CatalogService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var receipts ReceiptQueue
	if s.Job != nil {
		receipts = s.Job
	}

	return &Services{
		Accounts: NewAccountService(s, repos),
		Tables:   NewTableService(s, repos),
		Bills:    NewBillService(s, repos, receipts),
		Catalog:  NewCatalogService(s, repos),
	}
}
