package repository

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deppfellow/restaurant-pos/internal/database"
	"github.com/deppfellow/restaurant-pos/internal/errs"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/sqlerr"
)

const integrationEnv = "POS_INTEGRATION_TESTS"

// startPostgres runs a migrated PostgreSQL container for the test.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv(integrationEnv) == "" {
		t.Skipf("set %s to run PostgreSQL integration tests", integrationEnv)
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pos_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := startPostgres(t)
	repos := NewPostgres(pool)
	ctx := context.Background()

	t.Run("seeded accounts get the default hash once", func(t *testing.T) {
		n, err := repos.Accounts.FillMissingHash(ctx, "A1B2C3D4E5", "deadbeef")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = repos.Accounts.FillMissingHash(ctx, "A1B2C3D4E5", "other")
		require.NoError(t, err)
		assert.Zero(t, n)

		admin, err := repos.Accounts.GetByUserName(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", admin.PasswordHash)
		assert.True(t, admin.Type.IsAdmin())
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repos.Bills.GetByID(ctx, 99999)
		assert.True(t, IsNotFound(err))

		var httpErr *errs.HTTPError
		require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
		assert.Equal(t, "Bill not found", httpErr.Message)

		open, err := repos.Bills.FindOpenByTable(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, open)
	})

	t.Run("locked tables are hidden", func(t *testing.T) {
		require.NoError(t, repos.Tables.Rename(ctx, 12, model.LockedPrefix+"Table 12"))

		visible, err := repos.Tables.ListVisible(ctx, model.LockedPrefix)
		require.NoError(t, err)
		assert.Len(t, visible, 11)

		all, err := repos.Tables.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 12)
	})

	t.Run("bill lifecycle", func(t *testing.T) {
		category, err := repos.Categories.Create(ctx, "Soups")
		require.NoError(t, err)

		food, err := repos.Foods.Create(ctx, model.Food{
			Name: "Pho", CategoryID: category.ID, Price: 4.25, Unit: "bowl", IsActive: true,
		})
		require.NoError(t, err)

		bill, err := repos.Bills.Create(ctx, 2, time.Now())
		require.NoError(t, err)

		_, err = repos.Bills.Create(ctx, 2, time.Now())
		assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err), "one open bill per table")

		require.NoError(t, repos.BillInfos.AddCount(ctx, bill.ID, food.ID, 2))
		require.NoError(t, repos.BillInfos.AddCount(ctx, bill.ID, food.ID, 1))

		items, err := repos.BillInfos.ListItems(ctx, bill.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Count)
		assert.InDelta(t, 12.75, items[0].Total, 0.001)

		checkedOut := time.Now()
		require.NoError(t, repos.Bills.CheckOut(ctx, model.CheckOut{
			BillID:       bill.ID,
			Discount:     0,
			TotalAmount:  12.75,
			FinalPrice:   12.75,
			DateCheckOut: checkedOut,
		}))

		paid, err := repos.Bills.ListPaid(ctx, checkedOut.Add(-time.Minute), checkedOut.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, paid, 1)
		assert.Equal(t, "Table 2", paid[0].TableName)
		assert.Empty(t, paid[0].StaffName)

		err = repos.Categories.Delete(ctx, category.ID)
		var httpErr *errs.HTTPError
		require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
		assert.Equal(t, http.StatusConflict, httpErr.Status)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		boom := errors.New("boom")

		err := repos.InTx(ctx, func(tx *Repositories) error {
			if _, err := tx.Tables.Create(ctx, "Patio", model.TableEmpty); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		all, err := repos.Tables.ListAll(ctx)
		require.NoError(t, err)
		for _, table := range all {
			assert.NotEqual(t, "Patio", table.Name)
		}
	})
}
