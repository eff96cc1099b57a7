package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medina-negoce/medina-erp/internal/auth"
	"github.com/medina-negoce/medina-erp/internal/bons"
	"github.com/medina-negoce/medina-erp/internal/catalog"
	"github.com/medina-negoce/medina-erp/internal/contacts"
	"github.com/medina-negoce/medina-erp/internal/history"
	"github.com/medina-negoce/medina-erp/internal/notify"
	"github.com/medina-negoce/medina-erp/internal/payments"
	"github.com/medina-negoce/medina-erp/internal/platform/httpx"
	"github.com/medina-negoce/medina-erp/internal/vehicles"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthService     *auth.Service
	AuthHandler     *auth.Handler
	BonsHandler     *bons.Handler
	HistoryHandler  *history.Handler
	ContactsHandler *contacts.Handler
	CatalogHandler  *catalog.Handler
	PaymentsHandler *payments.Handler
	VehiclesHandler *vehicles.Handler
	Hub             *notify.Hub
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Logger, params.Config) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			params.AuthHandler.MountPublic(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.AuthService.RequireAuth)

			params.AuthHandler.MountRoutes(r)
			r.Route("/bons", func(r chi.Router) {
				params.BonsHandler.MountRoutes(r)
				r.Route("/history", func(r chi.Router) {
					params.HistoryHandler.MountRoutes(r)
				})
			})
			r.Route("/contacts", func(r chi.Router) {
				params.ContactsHandler.MountRoutes(r)
			})
			r.Route("/products", func(r chi.Router) {
				params.CatalogHandler.MountRoutes(r)
			})
			r.Route("/payments", func(r chi.Router) {
				params.PaymentsHandler.MountRoutes(r)
			})
			r.Route("/vehicles", func(r chi.Router) {
				params.VehiclesHandler.MountRoutes(r)
			})

			if params.Hub != nil {
				r.Get("/ws", params.Hub.ServeWS)
			}
		})
	})

	return r
}
