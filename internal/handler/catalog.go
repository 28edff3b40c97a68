package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
	"github.com/deppfellow/restaurant-pos/internal/validation"
)

type CatalogHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler: NewHandler(s),
		catalog: catalog,
	}
}

func (h *CatalogHandler) ListCategories(c echo.Context, _ *EmptyRequest) ([]model.FoodCategory, error) {
	return h.catalog.ListCategories(c.Request().Context())
}

type CategoryRequest struct {
	ID   int    `param:"id" json:"-"`
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CategoryRequest) Validate() error {
	return validation.Struct(r)
}

func (h *CatalogHandler) CreateCategory(c echo.Context, req *CategoryRequest) (*model.FoodCategory, error) {
	return h.catalog.CreateCategory(c.Request().Context(), req.Name)
}

func (h *CatalogHandler) RenameCategory(c echo.Context, req *CategoryRequest) (*model.FoodCategory, error) {
	return h.catalog.RenameCategory(c.Request().Context(), req.ID, req.Name)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context, req *IDRequest) error {
	return h.catalog.DeleteCategory(c.Request().Context(), req.ID)
}

type ListFoodsRequest struct {
	CategoryID      int  `query:"category_id" validate:"min=0"`
	IncludeInactive bool `query:"include_inactive"`
}

func (r *ListFoodsRequest) Validate() error {
	return validation.Struct(r)
}

func (h *CatalogHandler) ListFoods(c echo.Context, req *ListFoodsRequest) ([]model.Food, error) {
	filter := model.FoodFilter{IncludeInactive: req.IncludeInactive}
	if req.CategoryID > 0 {
		filter.CategoryID = &req.CategoryID
	}
	return h.catalog.ListFoods(c.Request().Context(), filter)
}

func (h *CatalogHandler) GetFood(c echo.Context, req *IDRequest) (*model.Food, error) {
	return h.catalog.GetFood(c.Request().Context(), req.ID)
}

// FoodRequest creates or replaces a food. A missing is_active means active.
type FoodRequest struct {
	ID         int     `param:"id" json:"-"`
	Name       string  `json:"name" validate:"required,max=100"`
	CategoryID int     `json:"category_id" validate:"required,min=1"`
	Price      float64 `json:"price" validate:"gte=0"`
	Unit       string  `json:"unit" validate:"required,max=50"`
	IsActive   *bool   `json:"is_active"`
}

func (r *FoodRequest) Validate() error {
	return validation.Struct(r)
}

func (r *FoodRequest) input() service.FoodInput {
	active := r.IsActive == nil || *r.IsActive
	return service.FoodInput{
		Name:       r.Name,
		CategoryID: r.CategoryID,
		Price:      r.Price,
		Unit:       r.Unit,
		IsActive:   active,
	}
}

func (h *CatalogHandler) CreateFood(c echo.Context, req *FoodRequest) (*model.Food, error) {
	return h.catalog.CreateFood(c.Request().Context(), req.input())
}

func (h *CatalogHandler) UpdateFood(c echo.Context, req *FoodRequest) (*model.Food, error) {
	return h.catalog.UpdateFood(c.Request().Context(), req.ID, req.input())
}

// DeactivateFood takes a food off the menu. Foods are never deleted since
// paid bills reference them.
func (h *CatalogHandler) DeactivateFood(c echo.Context, req *IDRequest) error {
	return h.catalog.SetFoodActive(c.Request().Context(), req.ID, false)
}
