package service

import (
	"context"
	"strings"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

// CatalogService manages food categories and the foods on the menu.
type CatalogService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewCatalogService(s *server.Server, repos *repository.Repositories) *CatalogService {
	return &CatalogService{server: s, repos: repos}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.FoodCategory, error) {
	return s.repos.Categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*model.FoodCategory, error) {
	return s.repos.Categories.Create(ctx, strings.TrimSpace(name))
}

func (s *CatalogService) RenameCategory(ctx context.Context, id int, name string) (*model.FoodCategory, error) {
	name = strings.TrimSpace(name)
	if err := s.repos.Categories.Rename(ctx, id, name); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &model.FoodCategory{ID: id, Name: name}, nil
}

// DeleteCategory is refused by the store while foods reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.repos.Categories.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListFoods(ctx context.Context, filter model.FoodFilter) ([]model.Food, error) {
	return s.repos.Foods.List(ctx, filter)
}

func (s *CatalogService) GetFood(ctx context.Context, id int) (*model.Food, error) {
	food, err := s.repos.Foods.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return food, nil
}

type FoodInput struct {
	Name       string
	CategoryID int
	Price      float64
	Unit       string
	IsActive   bool
}

func (in FoodInput) food(id int) model.Food {
	return model.Food{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		CategoryID: in.CategoryID,
		Price:      in.Price,
		Unit:       strings.TrimSpace(in.Unit),
		IsActive:   in.IsActive,
	}
}

func (s *CatalogService) CreateFood(ctx context.Context, in FoodInput) (*model.Food, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	food, err := s.repos.Foods.Create(ctx, in.food(0))
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().Int("food_id", food.ID).Str("name", food.Name).Msg("food created")
	return food, nil
}

func (s *CatalogService) UpdateFood(ctx context.Context, id int, in FoodInput) (*model.Food, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	food := in.food(id)
	if err := s.repos.Foods.Update(ctx, food); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

// SetFoodActive takes a food off the menu or puts it back. Inactive foods
// stay on existing bills.
func (s *CatalogService) SetFoodActive(ctx context.Context, id int, active bool) error {
	if err := s.repos.Foods.SetActive(ctx, id, active); err != nil {
		if repository.IsNotFound(err) {
			return ErrFoodNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id int) error {
	if _, err := s.repos.Categories.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCategoryNotFound.WithMessagef("Category %d not found", id)
		}
		return err
	}
	return nil
}
