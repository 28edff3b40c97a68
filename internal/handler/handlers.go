package handler

import (
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Auth    *AuthHandler
	Account *AccountHandler
	Table   *TableHandler
	Bill    *BillHandler
	Catalog *CatalogHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Auth:    NewAuthHandler(s, services.Accounts),
		Account: NewAccountHandler(s, services.Accounts),
		Table:   NewTableHandler(s, services.Tables, services.Bills),
		Bill:    NewBillHandler(s, services.Bills),
		Catalog: NewCatalogHandler(s, services.Catalog),
	}
}
