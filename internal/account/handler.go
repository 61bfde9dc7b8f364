// internal/account/handler.go
package account

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey struct{}

// UserFromContext returns the authenticated user placed by Authenticator.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	return u, ok
}

// Authenticator is chi middleware that requires a valid bearer token.
func Authenticator(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := service.VerifyToken(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/reset-password", h.handleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(h.service))
		r.Post("/change-password", h.handleChangePassword)
		r.Get("/me", h.handleMe)
	})
	return r
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "account.Handler.handleRegister"
	log := slog.With("op", op)

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}

	session, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(session); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "account.Handler.handleLogin"
	log := slog.With("op", op)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, log, err)
		return
	}

	if err := json.NewEncoder(w).Encode(session); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	const op = "account.Handler.handleResetPassword"
	log := slog.With("op", op)

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email); err != nil {
		log.Error("failed to reset password", "err", err)
		http.Error(w, "failed to reset password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	const op = "account.Handler.handleChangePassword"
	log := slog.With("op", op)

	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.writeAuthError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	const op = "account.Handler.handleMe"

	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

// writeAuthError maps service failures to the inline messages the pages
// display.
func (h *Handler) writeAuthError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidPassword):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		log.Error("auth operation failed", "err", err)
		http.Error(w, "auth operation failed", http.StatusInternalServerError)
	}
}
