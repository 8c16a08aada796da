package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/artha-erp/artha/internal/accounts"
	"github.com/artha-erp/artha/internal/auth"
	"github.com/artha-erp/artha/internal/dashboard"
	"github.com/artha-erp/artha/internal/inventory"
	"github.com/artha-erp/artha/internal/products"
	"github.com/artha-erp/artha/internal/purchases"
	"github.com/artha-erp/artha/internal/quotations"
	"github.com/artha-erp/artha/internal/stores"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Tokens            *auth.TokenIssuer
	AuthHandler       *auth.Handler
	AccountsHandler   *accounts.Handler
	StoresHandler     *stores.Handler
	ProductsHandler   *products.Handler
	InventoryHandler  *inventory.Handler
	QuotationsHandler *quotations.Handler
	PurchasesHandler  *purchases.Handler
	DashboardHandler  *dashboard.Handler
}

// NewRouter constructs the chi.Router with Artha defaults. Everything under
// /api except the login endpoint requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		params.AuthHandler.MountPublicRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(params.Tokens))

			params.AuthHandler.MountProtectedRoutes(protected)
			params.AccountsHandler.MountRoutes(protected)
			params.StoresHandler.MountRoutes(protected)
			params.ProductsHandler.MountRoutes(protected)
			params.InventoryHandler.MountRoutes(protected)
			params.QuotationsHandler.MountRoutes(protected)
			params.PurchasesHandler.MountRoutes(protected)
			params.DashboardHandler.MountRoutes(protected)
		})
	})

	return r
}
