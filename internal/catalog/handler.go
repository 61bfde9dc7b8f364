// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const defaultSliceLimit = 4

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/volumes", h.handleListVolumes)
	r.Get("/volumes/{id}", h.handleGetVolume)
	r.Get("/genres", h.handleListGenres)
	r.Get("/featured", h.handleFeatured)
	r.Get("/new-releases", h.handleNewReleases)
	r.Get("/bestsellers", h.handleBestsellers)
	return r
}

// volumeView is the HTTP representation of a Volume. Monetary values are
// rounded to two decimals here, never earlier.
type volumeView struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Publisher   string   `json:"publisher,omitempty"`
	Description string   `json:"description,omitempty"`
	CoverImage  string   `json:"cover_image,omitempty"`
	Price       string   `json:"price"`
	Rating      float64  `json:"rating"`
	Volumes     int      `json:"volumes,omitempty"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date"`
	InStock     bool     `json:"in_stock"`
}

func toView(v Volume) volumeView {
	return volumeView{
		ID:          v.ID,
		Title:       v.Title,
		Author:      v.Author,
		Publisher:   v.Publisher,
		Description: v.Description,
		CoverImage:  v.CoverImage,
		Price:       v.Price.StringFixed(2),
		Rating:      v.Rating,
		Volumes:     v.Volumes,
		Genres:      v.Genres,
		ReleaseDate: v.ReleaseDate.Format("2006-01-02"),
		InStock:     v.InStock,
	}
}

func toViews(volumes []Volume) []volumeView {
	views := make([]volumeView, len(volumes))
	for i, v := range volumes {
		views[i] = toView(v)
	}
	return views
}

func (h *Handler) handleListVolumes(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleListVolumes"
	log := slog.With("op", op)

	spec, err := specFromQuery(r.URL.Query().Get("search"),
		r.URL.Query().Get("genre"),
		r.URL.Query().Get("price_min"),
		r.URL.Query().Get("price_max"),
		r.URL.Query().Get("sort"),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	volumes := h.service.Query(r.Context(), spec)
	if err := json.NewEncoder(w).Encode(toViews(volumes)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// specFromQuery builds a QuerySpec from the request parameters the catalog
// page carries in its URL (search, genre, price bounds, sort).
func specFromQuery(search, genre, priceMin, priceMax, sortKey string) (QuerySpec, error) {
	spec := QuerySpec{Text: search}

	if genre != "" {
		for _, g := range strings.Split(genre, ",") {
			if g = strings.TrimSpace(g); g != "" {
				spec.Genres = append(spec.Genres, g)
			}
		}
	}

	if priceMin != "" {
		min, err := decimal.NewFromString(priceMin)
		if err != nil {
			return QuerySpec{}, errors.New("invalid price_min")
		}
		spec.PriceMin = &min
	}
	if priceMax != "" {
		max, err := decimal.NewFromString(priceMax)
		if err != nil {
			return QuerySpec{}, errors.New("invalid price_max")
		}
		spec.PriceMax = &max
	}

	key, err := ParseSortKey(sortKey)
	if err != nil {
		return QuerySpec{}, err
	}
	spec.Sort = key

	return spec, nil
}

func (h *Handler) handleGetVolume(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleGetVolume"
	log := slog.With("op", op)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid volume ID", http.StatusBadRequest)
		return
	}

	volume, err := h.service.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(toView(*volume)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleListGenres(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleListGenres"
	log := slog.With("op", op)

	if err := json.NewEncoder(w).Encode(h.service.Genres(r.Context())); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleFeatured"
	h.writeSlice(w, op, h.service.Featured(r.Context(), limitParam(r)))
}

func (h *Handler) handleNewReleases(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleNewReleases"
	h.writeSlice(w, op, h.service.NewReleases(r.Context(), limitParam(r)))
}

func (h *Handler) handleBestsellers(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.handleBestsellers"
	h.writeSlice(w, op, h.service.Bestsellers(r.Context(), limitParam(r)))
}

func (h *Handler) writeSlice(w http.ResponseWriter, op string, volumes []Volume) {
	if err := json.NewEncoder(w).Encode(toViews(volumes)); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultSliceLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultSliceLimit
	}
	return n
}
