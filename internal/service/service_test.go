package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/config"
	"github.com/deppfellow/restaurant-pos/internal/lib/session"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/repository/memstore"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

type fakeReceipts struct {
	billIDs []int
	to      []string
}

func (f *fakeReceipts) EnqueueBillReceipt(_ context.Context, billID int, to string) error {
	f.billIDs = append(f.billIDs, billID)
	f.to = append(f.to, to)
	return nil
}

type testEnv struct {
	ctx      context.Context
	server   *server.Server
	repos    *repository.Repositories
	receipts *fakeReceipts
	services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Auth: config.AuthConfig{
				SessionTTL:      time.Hour,
				DefaultSalt:     "A1B2C3D4E5",
				DefaultPassword: "123456",
			},
		},
		Logger:   &logger,
		Sessions: session.NewMemoryStore(),
	}

	repos := memstore.New().Repositories()
	receipts := &fakeReceipts{}

	return &testEnv{
		ctx:      context.Background(),
		server:   s,
		repos:    repos,
		receipts: receipts,
		services: &Services{
			Accounts: NewAccountService(s, repos),
			Tables:   NewTableService(s, repos),
			Bills:    NewBillService(s, repos, receipts),
			Catalog:  NewCatalogService(s, repos),
		},
	}
}

func (e *testEnv) table(t *testing.T, name string) model.TableFood {
	t.Helper()
	table, err := e.repos.Tables.Create(e.ctx, name, model.TableEmpty)
	require.NoError(t, err)
	return *table
}

func (e *testEnv) food(t *testing.T, name string, price float64) model.Food {
	t.Helper()

	categories, err := e.repos.Categories.List(e.ctx)
	require.NoError(t, err)

	var categoryID int
	if len(categories) == 0 {
		c, err := e.repos.Categories.Create(e.ctx, "Mains")
		require.NoError(t, err)
		categoryID = c.ID
	} else {
		categoryID = categories[0].ID
	}

	food, err := e.repos.Foods.Create(e.ctx, model.Food{
		Name:       name,
		CategoryID: categoryID,
		Price:      price,
		Unit:       "plate",
		IsActive:   true,
	})
	require.NoError(t, err)
	return *food
}

func (e *testEnv) account(t *testing.T, a model.Account) model.Account {
	t.Helper()
	created, err := e.repos.Accounts.Create(e.ctx, a)
	require.NoError(t, err)
	return *created
}

func (e *testEnv) tableStatus(t *testing.T, id int) model.TableStatus {
	t.Helper()
	table, err := e.repos.Tables.GetByID(e.ctx, id)
	require.NoError(t, err)
	return table.Status
}
