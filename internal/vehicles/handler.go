package vehicles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medina-negoce/medina-erp/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	repo     Repository
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, repo: repo, validate: validate}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list vehicles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	vehicle, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id, err := h.repo.Create(r.Context(), Vehicle{
		Immatriculation: req.Immatriculation,
		Marque:          req.Marque,
		Modele:          req.Modele,
		Chauffeur:       req.Chauffeur,
	})
	if err != nil {
		h.logger.Error("create vehicle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	vehicle, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vehicle)
}
