package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
	"github.com/deppfellow/restaurant-pos/internal/validation"
)

type TableHandler struct {
	Handler
	tables *service.TableService
	bills  *service.BillService
}

func NewTableHandler(s *server.Server, tables *service.TableService, bills *service.BillService) *TableHandler {
	return &TableHandler{
		Handler: NewHandler(s),
		tables:  tables,
		bills:   bills,
	}
}

func (h *TableHandler) ListTables(c echo.Context, _ *EmptyRequest) ([]model.TableFood, error) {
	return h.tables.LoadTableList(c.Request().Context())
}

func (h *TableHandler) ListAllTables(c echo.Context, _ *EmptyRequest) ([]model.TableFood, error) {
	return h.tables.ListAllTables(c.Request().Context())
}

func (h *TableHandler) GetTable(c echo.Context, req *IDRequest) (*model.TableFood, error) {
	return h.tables.GetTable(c.Request().Context(), req.ID)
}

type TableNameRequest struct {
	ID   int    `param:"id" json:"-"`
	Name string `json:"name" validate:"required,max=90"`
}

func (r *TableNameRequest) Validate() error {
	return validation.Struct(r)
}

func (h *TableHandler) CreateTable(c echo.Context, req *TableNameRequest) (*model.TableFood, error) {
	return h.tables.CreateTable(c.Request().Context(), req.Name)
}

func (h *TableHandler) RenameTable(c echo.Context, req *TableNameRequest) (*model.TableFood, error) {
	return h.tables.RenameTable(c.Request().Context(), req.ID, req.Name)
}

func (h *TableHandler) DeleteTable(c echo.Context, req *IDRequest) error {
	return h.tables.DeleteTable(c.Request().Context(), req.ID)
}

func (h *TableHandler) LockTable(c echo.Context, req *IDRequest) (*model.TableFood, error) {
	return h.tables.LockTable(c.Request().Context(), req.ID)
}

func (h *TableHandler) UnlockTable(c echo.Context, req *IDRequest) (*model.TableFood, error) {
	return h.tables.UnlockTable(c.Request().Context(), req.ID)
}

func (h *TableHandler) EnsureDefaultStatus(c echo.Context, _ *EmptyRequest) (*UpdatedResponse, error) {
	n, err := h.tables.EnsureTablesDefaultStatus(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &UpdatedResponse{Updated: n}, nil
}

// MoveTableRequest names the source table in the path and the destination
// in the body.
type MoveTableRequest struct {
	ID        int `param:"id" json:"-" validate:"required,min=1"`
	ToTableID int `json:"to_table_id" validate:"required,min=1"`
}

func (r *MoveTableRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.ID == r.ToTableID {
		return validation.CustomValidationErrors{{Field: "to_table_id", Message: "must differ from the source table"}}
	}
	return nil
}

func (h *TableHandler) SwitchTable(c echo.Context, req *MoveTableRequest) error {
	return h.tables.SwitchTable(c.Request().Context(), req.ID, req.ToTableID)
}

func (h *TableHandler) MergeTable(c echo.Context, req *MoveTableRequest) error {
	return h.bills.MergeTable(c.Request().Context(), req.ID, req.ToTableID)
}

func (h *TableHandler) GetMenu(c echo.Context, req *IDRequest) ([]model.MenuItem, error) {
	return h.bills.GetMenuListByTable(c.Request().Context(), req.ID)
}

func (h *TableHandler) GetOpenBill(c echo.Context, req *IDRequest) (*model.BillDetail, error) {
	return h.bills.GetOpenBill(c.Request().Context(), req.ID)
}

type AddFoodRequest struct {
	ID     int `param:"id" json:"-" validate:"required,min=1"`
	FoodID int `json:"food_id" validate:"required,min=1"`
	Count  int `json:"count" validate:"min=1,max=1000"`
}

func (r *AddFoodRequest) Validate() error {
	return validation.Struct(r)
}

func (h *TableHandler) AddFood(c echo.Context, req *AddFoodRequest) error {
	return h.bills.AddFoodToBill(c.Request().Context(), req.ID, req.FoodID, req.Count)
}

// RemoveFoodRequest defaults Count to 1 when the query omits it.
type RemoveFoodRequest struct {
	ID     int `param:"id" json:"-" validate:"required,min=1"`
	FoodID int `param:"food_id" json:"-" validate:"required,min=1"`
	Count  int `query:"count" json:"-" validate:"min=0,max=1000"`
}

func (r *RemoveFoodRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Count == 0 {
		r.Count = 1
	}
	return nil
}

func (h *TableHandler) RemoveFood(c echo.Context, req *RemoveFoodRequest) error {
	return h.bills.RemoveFoodFromBill(c.Request().Context(), req.ID, req.FoodID, req.Count)
}
