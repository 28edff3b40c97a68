// Package memstore is an in-memory implementation of the repository
// interfaces. It mirrors the constraint errors PostgreSQL raises so
// services and handlers behave the same against it.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
)

type state struct {
	accounts   map[int]model.Account
	tables     map[int]model.TableFood
	categories map[int]model.FoodCategory
	foods      map[int]model.Food
	bills      map[int]model.Bill
	billInfos  map[int]model.BillInfo
	nextID     int
}

func (s state) clone() state {
	return state{
		accounts:   maps.Clone(s.accounts),
		tables:     maps.Clone(s.tables),
		categories: maps.Clone(s.categories),
		foods:      maps.Clone(s.foods),
		bills:      maps.Clone(s.bills),
		billInfos:  maps.Clone(s.billInfos),
		nextID:     s.nextID,
	}
}

// Store holds every entity behind one mutex. Transactions are serialized
// and roll back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
}

func New() *Store {
	return &Store{
		data: state{
			accounts:   map[int]model.Account{},
			tables:     map[int]model.TableFood{},
			categories: map[int]model.FoodCategory{},
			foods:      map[int]model.Food{},
			bills:      map[int]model.Bill{},
			billInfos:  map[int]model.BillInfo{},
		},
	}
}

// Repositories returns repositories backed by s.
func (s *Store) Repositories() *repository.Repositories {
	repos := s.bare()
	repos.Tx = func(ctx context.Context, fn func(repos *repository.Repositories) error) error {
		s.txMu.Lock()
		defer s.txMu.Unlock()

		s.mu.Lock()
		snapshot := s.data.clone()
		s.mu.Unlock()

		if err := fn(s.bare()); err != nil {
			s.mu.Lock()
			s.data = snapshot
			s.mu.Unlock()
			return err
		}
		return nil
	}
	return repos
}

// bare has no Tx, so InTx inside a transaction runs in place.
func (s *Store) bare() *repository.Repositories {
	return &repository.Repositories{
		Accounts:   &accounts{s},
		Tables:     &tables{s},
		Categories: &categories{s},
		Foods:      &foods{s},
		Bills:      &bills{s},
		BillInfos:  &billInfos{s},
	}
}

func (s *Store) id() int {
	s.data.nextID++
	return s.data.nextID
}

func sortedByID[T any](m map[int]T, keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func restrictedDelete(parent, child, constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        fmt.Sprintf(`update or delete on table "%s" violates foreign key constraint "%s" on table "%s"`, parent, constraint, child),
		TableName:      child,
		ConstraintName: constraint,
	}
}

func missingReference(table, column, constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        fmt.Sprintf(`insert or update on table "%s" violates foreign key constraint "%s"`, table, constraint),
		TableName:      table,
		ColumnName:     column,
		ConstraintName: constraint,
	}
}

func uniqueViolation(table, constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        fmt.Sprintf(`duplicate key value violates unique constraint "%s"`, constraint),
		TableName:      table,
		ConstraintName: constraint,
	}
}

// --- accounts ---------------------------------------------------------------

type accounts struct{ s *Store }

func (r *accounts) GetByID(_ context.Context, id int) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.accounts[id]
	if !ok {
		return nil, repository.NotFound("accounts")
	}
	return &a, nil
}

func (r *accounts) GetByUserName(_ context.Context, userName string) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.data.accounts {
		if a.UserName == userName {
			return &a, nil
		}
	}
	return nil, repository.NotFound("accounts")
}

func (r *accounts) List(_ context.Context) ([]model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedByID(r.s.data.accounts, nil), nil
}

func (r *accounts) Create(_ context.Context, account model.Account) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.data.accounts {
		if a.UserName == account.UserName {
			return nil, uniqueViolation("accounts", "accounts_user_name_key")
		}
	}

	account.ID = r.s.id()
	r.s.data.accounts[account.ID] = account
	return &account, nil
}

func (r *accounts) update(id int, fn func(a *model.Account)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.accounts[id]
	if !ok {
		return repository.NotFound("accounts")
	}
	fn(&a)
	r.s.data.accounts[id] = a
	return nil
}

func (r *accounts) UpdatePassword(_ context.Context, id int, hash, salt string) error {
	return r.update(id, func(a *model.Account) {
		a.PasswordHash = hash
		a.Salt = salt
	})
}

func (r *accounts) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	return r.update(id, func(a *model.Account) { a.LastLogin = &at })
}

func (r *accounts) SetActive(_ context.Context, id int, active bool) error {
	return r.update(id, func(a *model.Account) { a.IsActive = active })
}

func (r *accounts) FillMissingHash(_ context.Context, salt, hash string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, a := range r.s.data.accounts {
		if a.Salt == salt && strings.TrimSpace(a.PasswordHash) == "" {
			a.PasswordHash = hash
			r.s.data.accounts[id] = a
			n++
		}
	}
	return n, nil
}

// --- tables -----------------------------------------------------------------

type tables struct{ s *Store }

func (r *tables) GetByID(_ context.Context, id int) (*model.TableFood, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.data.tables[id]
	if !ok {
		return nil, repository.NotFound("tables")
	}
	return &t, nil
}

func (r *tables) ListVisible(_ context.Context, hiddenPrefix string) ([]model.TableFood, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedByID(r.s.data.tables, func(t model.TableFood) bool {
		return !strings.HasPrefix(t.Name, hiddenPrefix)
	}), nil
}

func (r *tables) ListAll(_ context.Context) ([]model.TableFood, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedByID(r.s.data.tables, nil), nil
}

func (r *tables) Create(_ context.Context, name string, status model.TableStatus) (*model.TableFood, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := model.TableFood{ID: r.s.id(), Name: name, Status: status}
	r.s.data.tables[t.ID] = t
	return &t, nil
}

func (r *tables) update(id int, fn func(t *model.TableFood)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.data.tables[id]
	if !ok {
		return repository.NotFound("tables")
	}
	fn(&t)
	r.s.data.tables[id] = t
	return nil
}

func (r *tables) Rename(_ context.Context, id int, name string) error {
	return r.update(id, func(t *model.TableFood) { t.Name = name })
}

func (r *tables) SetStatus(_ context.Context, id int, status model.TableStatus) error {
	return r.update(id, func(t *model.TableFood) { t.Status = status })
}

func (r *tables) FillMissingStatus(_ context.Context, status model.TableStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.data.tables {
		if t.Status == "" {
			t.Status = status
			r.s.data.tables[id] = t
			n++
		}
	}
	return n, nil
}

func (r *tables) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tables[id]; !ok {
		return repository.NotFound("tables")
	}
	for _, b := range r.s.data.bills {
		if b.TableID == id {
			return restrictedDelete("table_foods", "bills", "bills_table_id_fkey")
		}
	}
	delete(r.s.data.tables, id)
	return nil
}

// --- catalogue --------------------------------------------------------------

type categories struct{ s *Store }

func (r *categories) GetByID(_ context.Context, id int) (*model.FoodCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, repository.NotFound("food_categories")
	}
	return &c, nil
}

func (r *categories) List(_ context.Context) ([]model.FoodCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := sortedByID(r.s.data.categories, nil)
	slices.SortStableFunc(out, func(a, b model.FoodCategory) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *categories) Create(_ context.Context, name string) (*model.FoodCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := model.FoodCategory{ID: r.s.id(), Name: name}
	r.s.data.categories[c.ID] = c
	return &c, nil
}

func (r *categories) Rename(_ context.Context, id int, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.categories[id]
	if !ok {
		return repository.NotFound("food_categories")
	}
	c.Name = name
	r.s.data.categories[id] = c
	return nil
}

func (r *categories) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.categories[id]; !ok {
		return repository.NotFound("food_categories")
	}
	for _, f := range r.s.data.foods {
		if f.CategoryID == id {
			return restrictedDelete("food_categories", "foods", "foods_category_id_fkey")
		}
	}
	delete(r.s.data.categories, id)
	return nil
}

type foods struct{ s *Store }

func (r *foods) GetByID(_ context.Context, id int) (*model.Food, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.data.foods[id]
	if !ok {
		return nil, repository.NotFound("foods")
	}
	return &f, nil
}

func (r *foods) List(_ context.Context, filter model.FoodFilter) ([]model.Food, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := sortedByID(r.s.data.foods, func(f model.Food) bool {
		if filter.CategoryID != nil && f.CategoryID != *filter.CategoryID {
			return false
		}
		return filter.IncludeInactive || f.IsActive
	})
	slices.SortStableFunc(out, func(a, b model.Food) int {
		return cmp.Or(cmp.Compare(a.CategoryID, b.CategoryID), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (r *foods) Create(_ context.Context, food model.Food) (*model.Food, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.categories[food.CategoryID]; !ok {
		return nil, missingReference("foods", "category_id", "foods_category_id_fkey")
	}

	food.ID = r.s.id()
	r.s.data.foods[food.ID] = food
	return &food, nil
}

func (r *foods) Update(_ context.Context, food model.Food) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.foods[food.ID]; !ok {
		return repository.NotFound("foods")
	}
	if _, ok := r.s.data.categories[food.CategoryID]; !ok {
		return missingReference("foods", "category_id", "foods_category_id_fkey")
	}
	r.s.data.foods[food.ID] = food
	return nil
}

func (r *foods) SetActive(_ context.Context, id int, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.data.foods[id]
	if !ok {
		return repository.NotFound("foods")
	}
	f.IsActive = active
	r.s.data.foods[id] = f
	return nil
}

// --- bills ------------------------------------------------------------------

type bills struct{ s *Store }

func (r *bills) GetByID(_ context.Context, id int) (*model.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.data.bills[id]
	if !ok {
		return nil, repository.NotFound("bills")
	}
	return &b, nil
}

func (r *bills) FindOpenByTable(_ context.Context, tableID int) (*model.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	open := sortedByID(r.s.data.bills, func(b model.Bill) bool {
		return b.TableID == tableID && b.Status == model.BillUnpaid
	})
	if len(open) == 0 {
		return nil, nil
	}
	return &open[0], nil
}

func (r *bills) Create(_ context.Context, tableID int, checkIn time.Time) (*model.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tables[tableID]; !ok {
		return nil, missingReference("bills", "table_id", "bills_table_id_fkey")
	}

	b := model.Bill{ID: r.s.id(), TableID: tableID, DateCheckIn: checkIn, Status: model.BillUnpaid}
	r.s.data.bills[b.ID] = b
	return &b, nil
}

func (r *bills) MoveToTable(_ context.Context, billID, tableID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.data.bills[billID]
	if !ok {
		return repository.NotFound("bills")
	}
	b.TableID = tableID
	r.s.data.bills[billID] = b
	return nil
}

func (r *bills) CheckOut(_ context.Context, c model.CheckOut) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.data.bills[c.BillID]
	if !ok {
		return repository.NotFound("bills")
	}
	total, final, staff, out := c.TotalAmount, c.FinalPrice, c.StaffID, c.DateCheckOut
	b.TotalAmount = &total
	b.FinalPrice = &final
	b.Discount = c.Discount
	b.DateCheckOut = &out
	b.Status = model.BillPaid
	b.StaffID = &staff
	r.s.data.bills[c.BillID] = b
	return nil
}

func (r *bills) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.bills[id]; !ok {
		return repository.NotFound("bills")
	}
	delete(r.s.data.bills, id)
	for infoID, bi := range r.s.data.billInfos {
		if bi.BillID == id {
			delete(r.s.data.billInfos, infoID)
		}
	}
	return nil
}

func (r *bills) ListPaid(_ context.Context, from, to time.Time) ([]model.RevenueEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	paid := sortedByID(r.s.data.bills, func(b model.Bill) bool {
		return b.IsPaid() && b.DateCheckOut != nil && !b.DateCheckOut.Before(from) && b.DateCheckOut.Before(to)
	})
	slices.SortStableFunc(paid, func(a, b model.Bill) int { return a.DateCheckOut.Compare(*b.DateCheckOut) })

	out := make([]model.RevenueEntry, 0, len(paid))
	for _, b := range paid {
		entry := model.RevenueEntry{
			BillID:       b.ID,
			TableID:      b.TableID,
			TableName:    r.s.data.tables[b.TableID].Name,
			DateCheckIn:  b.DateCheckIn,
			DateCheckOut: *b.DateCheckOut,
			Discount:     b.Discount,
		}
		if b.TotalAmount != nil {
			entry.TotalAmount = *b.TotalAmount
		}
		if b.FinalPrice != nil {
			entry.FinalPrice = *b.FinalPrice
		}
		if b.StaffID != nil {
			entry.StaffName = r.s.data.accounts[*b.StaffID].DisplayName
		}
		out = append(out, entry)
	}
	return out, nil
}

// --- bill lines -------------------------------------------------------------

type billInfos struct{ s *Store }

func (r *billInfos) Find(_ context.Context, billID, foodID int) (*model.BillInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, bi := range r.s.data.billInfos {
		if bi.BillID == billID && bi.FoodID == foodID {
			return &bi, nil
		}
	}
	return nil, nil
}

func (r *billInfos) ListByBill(_ context.Context, billID int) ([]model.BillInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedByID(r.s.data.billInfos, func(bi model.BillInfo) bool { return bi.BillID == billID }), nil
}

func (r *billInfos) ListItems(_ context.Context, billID int) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := sortedByID(r.s.data.billInfos, func(bi model.BillInfo) bool { return bi.BillID == billID })
	items := make([]model.MenuItem, 0, len(lines))
	for _, bi := range lines {
		f := r.s.data.foods[bi.FoodID]
		items = append(items, model.MenuItem{
			FoodID: f.ID,
			Name:   f.Name,
			Price:  f.Price,
			Count:  bi.Count,
			Total:  float64(bi.Count) * f.Price,
		})
	}
	return items, nil
}

func (r *billInfos) AddCount(_ context.Context, billID, foodID, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.bills[billID]; !ok {
		return missingReference("bill_infos", "bill_id", "bill_infos_bill_id_fkey")
	}
	if _, ok := r.s.data.foods[foodID]; !ok {
		return missingReference("bill_infos", "food_id", "bill_infos_food_id_fkey")
	}

	for id, bi := range r.s.data.billInfos {
		if bi.BillID == billID && bi.FoodID == foodID {
			bi.Count += count
			r.s.data.billInfos[id] = bi
			return nil
		}
	}

	bi := model.BillInfo{ID: r.s.id(), BillID: billID, FoodID: foodID, Count: count}
	r.s.data.billInfos[bi.ID] = bi
	return nil
}

func (r *billInfos) UpdateCount(_ context.Context, id, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bi, ok := r.s.data.billInfos[id]
	if !ok {
		return repository.NotFound("bill_infos")
	}
	bi.Count = count
	r.s.data.billInfos[id] = bi
	return nil
}

func (r *billInfos) MoveToBill(_ context.Context, id, billID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bi, ok := r.s.data.billInfos[id]
	if !ok {
		return repository.NotFound("bill_infos")
	}
	for _, other := range r.s.data.billInfos {
		if other.BillID == billID && other.FoodID == bi.FoodID {
			return uniqueViolation("bill_infos", "bill_infos_bill_food_key")
		}
	}
	bi.BillID = billID
	r.s.data.billInfos[id] = bi
	return nil
}

func (r *billInfos) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.billInfos[id]; !ok {
		return repository.NotFound("bill_infos")
	}
	delete(r.s.data.billInfos, id)
	return nil
}

func (r *billInfos) CountByBill(_ context.Context, billID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, bi := range r.s.data.billInfos {
		if bi.BillID == billID {
			n++
		}
	}
	return n, nil
}
