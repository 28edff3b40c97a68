// Package router builds the echo instance: global middleware chain, system
// routes and the /api/v1 groups.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/handler"
	"github.com/deppfellow/restaurant-pos/internal/middleware"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the transaction must exist before the request logger
	// reads it, and the request id before the context enhancer.
	router.Use(
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerAuthRoutes(v1, h, middlewares)
	registerTableRoutes(v1, h, middlewares)
	registerBillRoutes(v1, h, middlewares)
	registerCatalogRoutes(v1, h, middlewares)
	registerAccountRoutes(v1, h, middlewares)

	return router
}

func registerAuthRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	auth := g.Group("/auth")
	auth.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK), m.RateLimit.LoginLimiter())

	authed := auth.Group("", m.Auth.RequireAuth)
	authed.POST("/logout", handler.HandleNoContent(h.Auth.Handler, h.Auth.Logout, http.StatusNoContent))
	authed.GET("/me", handler.Handle(h.Auth.Handler, h.Auth.Me, http.StatusOK))
	authed.PUT("/password", handler.HandleNoContent(h.Auth.Handler, h.Auth.ChangePassword, http.StatusNoContent))
	authed.POST("/diagnose", handler.Handle(h.Auth.Handler, h.Auth.DiagnoseLogin, http.StatusOK), m.Auth.RequireAdmin)
}

func registerTableRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	t := h.Table
	tables := g.Group("/tables", m.Auth.RequireAuth)

	tables.GET("", handler.Handle(t.Handler, t.ListTables, http.StatusOK))
	tables.GET("/:id", handler.Handle(t.Handler, t.GetTable, http.StatusOK))
	tables.GET("/:id/menu", handler.Handle(t.Handler, t.GetMenu, http.StatusOK))
	tables.GET("/:id/bill", handler.Handle(t.Handler, t.GetOpenBill, http.StatusOK))
	tables.POST("/:id/items", handler.HandleNoContent(t.Handler, t.AddFood, http.StatusNoContent))
	tables.DELETE("/:id/items/:food_id", handler.HandleNoContent(t.Handler, t.RemoveFood, http.StatusNoContent))
	tables.POST("/:id/switch", handler.HandleNoContent(t.Handler, t.SwitchTable, http.StatusNoContent))
	tables.POST("/:id/merge", handler.HandleNoContent(t.Handler, t.MergeTable, http.StatusNoContent))

	admin := g.Group("/admin/tables", m.Auth.RequireAuth, m.Auth.RequireAdmin)
	admin.GET("", handler.Handle(t.Handler, t.ListAllTables, http.StatusOK))
	admin.POST("", handler.Handle(t.Handler, t.CreateTable, http.StatusCreated))
	admin.POST("/ensure-status", handler.Handle(t.Handler, t.EnsureDefaultStatus, http.StatusOK))
	admin.PUT("/:id", handler.Handle(t.Handler, t.RenameTable, http.StatusOK))
	admin.DELETE("/:id", handler.HandleNoContent(t.Handler, t.DeleteTable, http.StatusNoContent))
	admin.POST("/:id/lock", handler.Handle(t.Handler, t.LockTable, http.StatusOK))
	admin.POST("/:id/unlock", handler.Handle(t.Handler, t.UnlockTable, http.StatusOK))
}

func registerBillRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	b := h.Bill
	bills := g.Group("/bills", m.Auth.RequireAuth)
	bills.GET("/:id", handler.Handle(b.Handler, b.GetBill, http.StatusOK))
	bills.POST("/:id/checkout", handler.Handle(b.Handler, b.CheckOut, http.StatusOK))

	reports := g.Group("/reports", m.Auth.RequireAuth, m.Auth.RequireAdmin)
	reports.GET("/revenue", handler.Handle(b.Handler, b.RevenueReport, http.StatusOK))
	reports.GET("/revenue.csv", handler.HandleFile(b.Handler, b.ExportRevenue, http.StatusOK, "revenue.csv", "text/csv"))
}

func registerCatalogRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	cat := h.Catalog

	read := g.Group("", m.Auth.RequireAuth)
	read.GET("/categories", handler.Handle(cat.Handler, cat.ListCategories, http.StatusOK))
	read.GET("/foods", handler.Handle(cat.Handler, cat.ListFoods, http.StatusOK))
	read.GET("/foods/:id", handler.Handle(cat.Handler, cat.GetFood, http.StatusOK))

	admin := g.Group("/admin", m.Auth.RequireAuth, m.Auth.RequireAdmin)
	admin.POST("/categories", handler.Handle(cat.Handler, cat.CreateCategory, http.StatusCreated))
	admin.PUT("/categories/:id", handler.Handle(cat.Handler, cat.RenameCategory, http.StatusOK))
	admin.DELETE("/categories/:id", handler.HandleNoContent(cat.Handler, cat.DeleteCategory, http.StatusNoContent))
	admin.POST("/foods", handler.Handle(cat.Handler, cat.CreateFood, http.StatusCreated))
	admin.PUT("/foods/:id", handler.Handle(cat.Handler, cat.UpdateFood, http.StatusOK))
	admin.DELETE("/foods/:id", handler.HandleNoContent(cat.Handler, cat.DeactivateFood, http.StatusNoContent))
}

func registerAccountRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	a := h.Account
	accounts := g.Group("/admin/accounts", m.Auth.RequireAuth, m.Auth.RequireAdmin)
	accounts.GET("", handler.Handle(a.Handler, a.ListAccounts, http.StatusOK))
	accounts.POST("", handler.Handle(a.Handler, a.CreateAccount, http.StatusCreated))
	accounts.POST("/ensure-defaults", handler.Handle(a.Handler, a.EnsureDefaults, http.StatusOK))
	accounts.PUT("/:id/active", handler.HandleNoContent(a.Handler, a.SetActive, http.StatusNoContent))
	accounts.PUT("/:id/password", handler.HandleNoContent(a.Handler, a.ResetPassword, http.StatusNoContent))
}
