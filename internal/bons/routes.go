package bons

import (
	"github.com/go-chi/chi/v5"

	"github.com/medina-negoce/medina-erp/internal/auth"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/mouvement", h.Mouvement)
	r.Post("/credit/check", h.CheckCredit)
	r.With(auth.RequireRole(shared.RolePDG)).Post("/credit/confirm", h.ConfirmCredit)
	r.Delete("/credit/approvals", h.ResetCredit)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/statut", h.UpdateStatus)
}
