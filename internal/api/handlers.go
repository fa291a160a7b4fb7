package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emelz/wardrobe/internal/apperr"
	"github.com/emelz/wardrobe/internal/index"
)

// Handler holds API route handlers over the item index.
type Handler struct {
	idx index.ItemIndex
}

// NewHandler creates a new Handler.
func NewHandler(idx index.ItemIndex) *Handler {
	return &Handler{idx: idx}
}

// ListItems handles GET /items with optional person and category
// filters.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.idx.List(q.Get("person"), q.Get("category"))
	if err != nil {
		slog.Error("list items failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// GetItem handles GET /items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.idx.Get(r.URL.Query().Get("person"), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get item failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.idx.Categories(r.URL.Query().Get("person"))
	if err != nil {
		slog.Error("list categories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Search handles GET /search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, err := h.idx.Search(q.Get("person"), query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}
