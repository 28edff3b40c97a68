package service

import (
	"context"
	"strings"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

type TableService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewTableService(s *server.Server, repos *repository.Repositories) *TableService {
	return &TableService{server: s, repos: repos}
}

// LoadTableList returns the tables shown on the floor plan. Locked tables
// are left out.
func (s *TableService) LoadTableList(ctx context.Context) ([]model.TableFood, error) {
	return s.repos.Tables.ListVisible(ctx, model.LockedPrefix)
}

// ListAllTables includes locked tables.
func (s *TableService) ListAllTables(ctx context.Context) ([]model.TableFood, error) {
	return s.repos.Tables.ListAll(ctx)
}

func (s *TableService) GetTable(ctx context.Context, id int) (*model.TableFood, error) {
	return getTable(ctx, s.repos, id)
}

// SwitchTable moves the open bill of fromID to toID. When toID already has
// an open bill the lines are merged into it instead.
func (s *TableService) SwitchTable(ctx context.Context, fromID, toID int) error {
	if fromID == toID {
		return ErrSameTable
	}

	err := s.repos.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := getTable(ctx, repos, fromID); err != nil {
			return err
		}
		if _, err := getTable(ctx, repos, toID); err != nil {
			return err
		}

		billFrom, err := repos.Bills.FindOpenByTable(ctx, fromID)
		if err != nil {
			return err
		}
		if billFrom == nil {
			return ErrNoOpenBill.WithMessagef("Table %d has no open bill", fromID)
		}

		billTo, err := repos.Bills.FindOpenByTable(ctx, toID)
		if err != nil {
			return err
		}

		if billTo == nil {
			if err := repos.Bills.MoveToTable(ctx, billFrom.ID, toID); err != nil {
				return err
			}
		} else if err := mergeBills(ctx, repos, billFrom.ID, billTo.ID); err != nil {
			return err
		}

		if err := repos.Tables.SetStatus(ctx, toID, model.TableOccupied); err != nil {
			return err
		}
		return repos.Tables.SetStatus(ctx, fromID, model.TableEmpty)
	})
	if err != nil {
		return err
	}

	s.server.Logger.Info().Int("from_table", fromID).Int("to_table", toID).Msg("table switched")
	return nil
}

// EnsureTablesDefaultStatus marks every table without a status as empty.
func (s *TableService) EnsureTablesDefaultStatus(ctx context.Context) (int64, error) {
	n, err := s.repos.Tables.FillMissingStatus(ctx, model.TableEmpty)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.server.Logger.Info().Int64("tables", n).Msg("default table status applied")
	}
	return n, nil
}

func (s *TableService) CreateTable(ctx context.Context, name string) (*model.TableFood, error) {
	return s.repos.Tables.Create(ctx, strings.TrimSpace(name), model.TableEmpty)
}

// RenameTable keeps the locked prefix of a locked table.
func (s *TableService) RenameTable(ctx context.Context, id int, name string) (*model.TableFood, error) {
	table, err := getTable(ctx, s.repos, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimPrefix(strings.TrimSpace(name), model.LockedPrefix)
	if table.IsLocked() {
		name = model.LockedPrefix + name
	}

	if err := s.repos.Tables.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	table.Name = name
	return table, nil
}

// DeleteTable refuses a table with an open bill. The store refuses one
// that paid bills still reference.
func (s *TableService) DeleteTable(ctx context.Context, id int) error {
	if _, err := getTable(ctx, s.repos, id); err != nil {
		return err
	}

	open, err := s.repos.Bills.FindOpenByTable(ctx, id)
	if err != nil {
		return err
	}
	if open != nil {
		return ErrTableOccupied
	}

	return s.repos.Tables.Delete(ctx, id)
}

// LockTable hides an idle table from the floor plan.
func (s *TableService) LockTable(ctx context.Context, id int) (*model.TableFood, error) {
	table, err := getTable(ctx, s.repos, id)
	if err != nil {
		return nil, err
	}
	if table.IsLocked() {
		return table, nil
	}

	open, err := s.repos.Bills.FindOpenByTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrTableOccupied
	}

	table.Name = model.LockedPrefix + table.Name
	if err := s.repos.Tables.Rename(ctx, id, table.Name); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *TableService) UnlockTable(ctx context.Context, id int) (*model.TableFood, error) {
	table, err := getTable(ctx, s.repos, id)
	if err != nil {
		return nil, err
	}
	if !table.IsLocked() {
		return table, nil
	}

	table.Name = strings.TrimPrefix(table.Name, model.LockedPrefix)
	if err := s.repos.Tables.Rename(ctx, id, table.Name); err != nil {
		return nil, err
	}
	return table, nil
}

func getTable(ctx context.Context, repos *repository.Repositories, id int) (*model.TableFood, error) {
	table, err := repos.Tables.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTableNotFound.WithMessagef("Table %d not found", id)
		}
		return nil, err
	}
	return table, nil
}
