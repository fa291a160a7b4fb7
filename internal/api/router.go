package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emelz/wardrobe/internal/index"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(idx index.ItemIndex, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(idx)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/items", h.ListItems)
	r.Get("/items/{id}", h.GetItem)
	r.Get("/categories", h.ListCategories)
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
