package bons

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medina-negoce/medina-erp/internal/credit"
	"github.com/medina-negoce/medina-erp/internal/platform/httpx"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListBonsRequest{}
	q := r.URL.Query()
	if t := q.Get("type"); t != "" {
		bt := BonType(t)
		req.Type = &bt
	}
	if s := q.Get("statut"); s != "" {
		bs := BonStatus(s)
		req.Statut = &bs
	}
	if c := q.Get("client_id"); c != "" {
		if id, err := strconv.ParseInt(c, 10, 64); err == nil {
			req.ClientID = &id
		}
	}
	if d := q.Get("date_from"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			req.DateFrom = &t
		}
	}
	if d := q.Get("date_to"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			req.DateTo = &t
		}
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	bons, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list bons", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"bons":       bons,
		"pagination": shared.NewPagination(req.Page, req.PerPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	bon, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bon)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	bon, err := h.service.Create(r.Context(), req, identity)
	if err != nil {
		h.respondWriteError(w, "create bon", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, bon)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req UpdateBonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	bon, err := h.service.Update(r.Context(), id, req, identity)
	if err != nil {
		h.respondWriteError(w, "update bon", err)
		return
	}
	httpx.JSON(w, http.StatusOK, bon)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	bon, err := h.service.UpdateStatus(r.Context(), id, req.Statut, identity)
	if err != nil {
		h.logger.Error("update statut", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bon)
}

func (h *Handler) Mouvement(w http.ResponseWriter, r *http.Request) {
	var req MouvementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	totals, err := h.service.Mouvement(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) CheckCredit(w http.ResponseWriter, r *http.Request) {
	var req CheckCreditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	decision, err := h.service.CheckCredit(r.Context(), req, identity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, decision)
}

func (h *Handler) ConfirmCredit(w http.ResponseWriter, r *http.Request) {
	var req ConfirmCreditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.ConfirmCredit(r.Context(), req.ClientID, identity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *Handler) ResetCredit(w http.ResponseWriter, r *http.Request) {
	var clientID int64
	if c := r.URL.Query().Get("client_id"); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client_id")
			return
		}
		clientID = id
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.ResetCredit(r.Context(), clientID, identity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// respondWriteError surfaces credit decisions with their own statuses:
// 403 for a denial, 409 when a confirmation is required first.
func (h *Handler) respondWriteError(w http.ResponseWriter, op string, err error) {
	var ce *CreditError
	if errors.As(err, &ce) {
		status := http.StatusForbidden
		title := "Credit Limit Exceeded"
		if ce.Decision.Outcome == credit.AllowWithConfirmation {
			status = http.StatusConflict
			title = "Credit Confirmation Required"
		}
		httpx.JSON(w, status, map[string]any{
			"title":    title,
			"status":   status,
			"decision": ce.Decision,
		})
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
