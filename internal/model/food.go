package model

type FoodCategory struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Food struct {
	ID         int     `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	CategoryID int     `json:"category_id" db:"category_id"`
	Price      float64 `json:"price" db:"price"`
	Unit       string  `json:"unit" db:"unit"`
	IsActive   bool    `json:"is_active" db:"is_active"`
}

// FoodFilter narrows a food listing. A nil CategoryID lists every category.
type FoodFilter struct {
	CategoryID      *int
	IncludeInactive bool
}
