// internal/cart/handler.go
package cart

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sullpe/OtakuShop/internal/catalog"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateCart)
	r.Route("/{cartID}", func(r chi.Router) {
		r.Get("/", h.handleGetCart)
		r.Delete("/", h.handleClearCart)
		r.Post("/items", h.handleAddItem)
		r.Put("/items/{volumeID}", h.handleSetQuantity)
		r.Delete("/items/{volumeID}", h.handleRemoveItem)
	})
	return r
}

// TotalsView is the HTTP representation of OrderTotals. Rounding to two
// decimals happens here and nowhere earlier.
type TotalsView struct {
	Subtotal     string `json:"subtotal"`
	ShippingCost string `json:"shipping_cost"`
	TaxAmount    string `json:"tax_amount"`
	GrandTotal   string `json:"grand_total"`
}

func NewTotalsView(t OrderTotals) TotalsView {
	return TotalsView{
		Subtotal:     t.Subtotal.StringFixed(2),
		ShippingCost: t.ShippingCost.StringFixed(2),
		TaxAmount:    t.TaxAmount.StringFixed(2),
		GrandTotal:   t.GrandTotal.StringFixed(2),
	}
}

type cartView struct {
	Entries    []Entry `json:"entries"`
	TotalItems int     `json:"total_items"`
}

func toCartView(c Cart) cartView {
	entries := c.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return cartView{Entries: entries, TotalItems: c.TotalItems()}
}

func (h *Handler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleCreateCart"
	log := slog.With("op", op)

	id, err := h.service.CreateCart(r.Context())
	if err != nil {
		log.Error("failed to create cart", "err", err)
		http.Error(w, "failed to create cart", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(struct {
		CartID string `json:"cart_id"`
	}{CartID: id.String()}); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleGetCart"
	log := slog.With("op", op)

	cartID, ok := parseCartID(w, r)
	if !ok {
		return
	}

	c, totals, err := h.service.GetCart(r.Context(), cartID)
	if err != nil {
		log.Error("failed to get cart", "err", err)
		http.Error(w, "failed to get cart", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(struct {
		cartView
		Totals TotalsView `json:"totals"`
	}{cartView: toCartView(c), Totals: NewTotalsView(totals)}); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleAddItem"
	log := slog.With("op", op)

	cartID, ok := parseCartID(w, r)
	if !ok {
		return
	}

	var req struct {
		VolumeID int  `json:"volume_id"`
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}
	// An omitted quantity means one copy; an explicit zero is rejected by the
	// cart as an invalid quantity.
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	c, err := h.service.AddItem(r.Context(), cartID, req.VolumeID, qty)
	if err != nil {
		h.writeItemError(w, log, err)
		return
	}

	if err := json.NewEncoder(w).Encode(toCartView(c)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleSetQuantity"
	log := slog.With("op", op)

	cartID, ok := parseCartID(w, r)
	if !ok {
		return
	}
	volumeID, err := strconv.Atoi(chi.URLParam(r, "volumeID"))
	if err != nil {
		http.Error(w, "invalid volume ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}

	c, err := h.service.SetQuantity(r.Context(), cartID, volumeID, req.Quantity)
	if err != nil {
		h.writeItemError(w, log, err)
		return
	}

	if err := json.NewEncoder(w).Encode(toCartView(c)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleRemoveItem"
	log := slog.With("op", op)

	cartID, ok := parseCartID(w, r)
	if !ok {
		return
	}
	volumeID, err := strconv.Atoi(chi.URLParam(r, "volumeID"))
	if err != nil {
		http.Error(w, "invalid volume ID", http.StatusBadRequest)
		return
	}

	c, err := h.service.RemoveItem(r.Context(), cartID, volumeID)
	if err != nil {
		log.Error("failed to remove item", "err", err)
		http.Error(w, "failed to remove item", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(toCartView(c)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "cart.Handler.handleClearCart"
	log := slog.With("op", op)

	cartID, ok := parseCartID(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearCart(r.Context(), cartID); err != nil {
		log.Error("failed to clear cart", "err", err)
		http.Error(w, "failed to clear cart", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeItemError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, catalog.ErrVolumeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("cart mutation failed", "err", err)
		http.Error(w, "cart mutation failed", http.StatusInternalServerError)
	}
}

func parseCartID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		http.Error(w, "invalid cart ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
