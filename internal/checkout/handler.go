// internal/checkout/handler.go
package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sullpe/OtakuShop/internal/account"
	"github.com/Sullpe/OtakuShop/internal/cart"
)

type Handler struct {
	service  Service
	accounts account.Service
}

func NewHandler(service Service, accounts account.Service) *Handler {
	return &Handler{service: service, accounts: accounts}
}

// Routes serves order submission. Checkout works for guests; a bearer token,
// when present, attaches the order to the user's history.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{cartID}", h.handleSubmit)
	return r
}

// OrderRoutes serves the order history; mount behind account.Authenticator.
func (h *Handler) OrderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(account.Authenticator(h.accounts))
	r.Get("/", h.handleListOrders)
	return r
}

type orderView struct {
	ID             string          `json:"id"`
	Lines          []lineView      `json:"lines"`
	Totals         cart.TotalsView `json:"totals"`
	Shipping       ShippingDetails `json:"shipping"`
	ConfirmationID string          `json:"confirmation_id"`
	CreatedAt      string          `json:"created_at"`
}

type lineView struct {
	VolumeID  int    `json:"volume_id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func toOrderView(o Order) orderView {
	lines := make([]lineView, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = lineView{
			VolumeID:  l.VolumeID,
			Title:     l.Title,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
		}
	}
	return orderView{
		ID:             o.ID.String(),
		Lines:          lines,
		Totals:         cart.NewTotalsView(o.Totals),
		Shipping:       o.Shipping,
		ConfirmationID: o.ConfirmationID,
		CreatedAt:      o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "checkout.Handler.handleSubmit"
	log := slog.With("op", op)

	cartID, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		http.Error(w, "invalid cart ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Shipping ShippingDetails `json:"shipping"`
		Card     CardDetails     `json:"card"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}
	if msg, ok := validateShipping(req.Shipping); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	order, err := h.service.Submit(r.Context(), cartID, h.bearerUserID(r), req.Shipping, req.Card)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrPaymentRejected):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Error("failed to submit order", "err", err)
			http.Error(w, "failed to submit order", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toOrderView(*order)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "checkout.Handler.handleListOrders"
	log := slog.With("op", op)

	user, ok := account.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	orders, err := h.service.Orders(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list orders", "err", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o)
	}
	if err := json.NewEncoder(w).Encode(views); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// bearerUserID resolves an optional Authorization header; guests check out
// with a nil user ID.
func (h *Handler) bearerUserID(r *http.Request) uuid.UUID {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" || raw == r.Header.Get("Authorization") {
		return uuid.Nil
	}
	user, err := h.accounts.VerifyToken(raw)
	if err != nil {
		return uuid.Nil
	}
	return user.ID
}

func validateShipping(s ShippingDetails) (string, bool) {
	for _, f := range []struct{ name, value string }{
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"address", s.Address},
		{"city", s.City},
	} {
		if strings.TrimSpace(f.value) == "" {
			return f.name + " is required", false
		}
	}
	return "", true
}
