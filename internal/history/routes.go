package history

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/last-price", h.LastPrice)
	r.Get("/last-quantity", h.LastQuantity)
	r.Get("/last-comptant", h.LastComptant)
	r.Get("/frequent-price", h.Frequent)
	r.Get("/suggestions", h.Suggestions)
}
