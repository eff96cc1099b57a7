package history

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/medina-negoce/medina-erp/internal/platform/httpx"
)

type Handler struct {
	logger *slog.Logger
	lookup *Lookup
}

func NewHandler(logger *slog.Logger, lookup *Lookup) *Handler {
	return &Handler{logger: logger, lookup: lookup}
}

func parseFilter(r *http.Request) (ItemFilter, bool) {
	q := r.URL.Query()
	productID, err := strconv.ParseInt(q.Get("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return ItemFilter{}, false
	}
	f := ItemFilter{ProductID: productID}
	if v := q.Get("variant_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.VariantID = &id
		}
	}
	if u := q.Get("unit_id"); u != "" {
		if id, err := strconv.ParseInt(u, 10, 64); err == nil {
			f.UnitID = &id
		}
	}
	return f, true
}

func parseContact(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("contact_id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) respond(w http.ResponseWriter, hit Hit, found bool, err error) {
	if err != nil {
		h.logger.Error("history lookup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if !found {
		httpx.JSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"found": true, "hit": hit})
}

func (h *Handler) LastPrice(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContact(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contact_id")
		return
	}
	f, ok := parseFilter(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product_id")
		return
	}
	hit, found, err := h.lookup.LastPrice(r.Context(), contactID, f)
	h.respond(w, hit, found, err)
}

func (h *Handler) LastQuantity(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContact(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contact_id")
		return
	}
	f, ok := parseFilter(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product_id")
		return
	}
	hit, found, err := h.lookup.LastQuantity(r.Context(), contactID, f)
	h.respond(w, hit, found, err)
}

func (h *Handler) LastComptant(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product_id")
		return
	}
	hit, found, err := h.lookup.LastComptantPrice(r.Context(), f)
	h.respond(w, hit, found, err)
}

func (h *Handler) Frequent(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product_id")
		return
	}
	minCount, _ := strconv.Atoi(r.URL.Query().Get("min_count"))
	hit, found, err := h.lookup.FrequentPrice(r.Context(), f, minCount)
	h.respond(w, hit, found, err)
}

type suggestion struct {
	Found bool `json:"found"`
	Hit   *Hit `json:"hit,omitempty"`
}

// Suggestions runs the four lookups in one round trip so the item entry
// form can pre-fill price and quantity with a single request.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContact(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contact_id")
		return
	}
	f, ok := parseFilter(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product_id")
		return
	}

	var lastPrice, lastQty, comptant, frequent suggestion
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		hit, found, err := h.lookup.LastPrice(ctx, contactID, f)
		if found {
			lastPrice = suggestion{Found: true, Hit: &hit}
		}
		return err
	})
	g.Go(func() error {
		hit, found, err := h.lookup.LastQuantity(ctx, contactID, f)
		if found {
			lastQty = suggestion{Found: true, Hit: &hit}
		}
		return err
	})
	g.Go(func() error {
		hit, found, err := h.lookup.LastComptantPrice(ctx, f)
		if found {
			comptant = suggestion{Found: true, Hit: &hit}
		}
		return err
	})
	g.Go(func() error {
		hit, found, err := h.lookup.FrequentPrice(ctx, f, 0)
		if found {
			frequent = suggestion{Found: true, Hit: &hit}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("history suggestions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"last_price":    lastPrice,
		"last_quantity": lastQty,
		"last_comptant": comptant,
		"frequent":      frequent,
	})
}
