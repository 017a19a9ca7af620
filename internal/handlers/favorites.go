package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
)

type FavoriteHandler struct {
	Store *store.Store
}

func NewFavoriteHandler(s *store.Store) *FavoriteHandler { return &FavoriteHandler{Store: s} }

// Routes is mounted under /favorites in main.
func (h *FavoriteHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}", h.add)
	r.Delete("/{id}", h.remove)
}

// list: GET /v1/favorites?page=1
func (h *FavoriteHandler) list(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	page, ok := pageParam(r)
	if !ok {
		badParam(w, "page")
		return
	}
	titles, err := h.Store.FetchFavorites(r.Context(), p, page)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"titles": titles})
}

// add: POST /v1/favorites/{id}. Re-adding an existing favorite is an
// idempotent success, not an error.
func (h *FavoriteHandler) add(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id is required"})
		return
	}
	exists, err := h.Store.FavoriteExists(r.Context(), p, id)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	if exists {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Already favorited"})
		return
	}
	if err := h.Store.InsertFavorite(r.Context(), p, id); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Favorite added"})
}

// remove: DELETE /v1/favorites/{id}. Removing an absent favorite is a no-op
// success.
func (h *FavoriteHandler) remove(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id is required"})
		return
	}
	if err := h.Store.DeleteFavorite(r.Context(), p, id); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Favorite removed"})
}
