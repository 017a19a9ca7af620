package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
)

type WatchLaterHandler struct {
	Store *store.Store
}

func NewWatchLaterHandler(s *store.Store) *WatchLaterHandler { return &WatchLaterHandler{Store: s} }

// Routes is mounted under /watch-later in main.
func (h *WatchLaterHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}", h.add)
	r.Delete("/{id}", h.remove)
}

func (h *WatchLaterHandler) list(w http.ResponseWriter, r *http.Request) {
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
	titles, err := h.Store.FetchWatchLater(r.Context(), p, page)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"titles": titles})
}

func (h *WatchLaterHandler) add(w http.ResponseWriter, r *http.Request) {
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
	exists, err := h.Store.WatchLaterExists(r.Context(), p, id)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	if exists {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Already added to Watch Later"})
		return
	}
	if err := h.Store.InsertWatchLater(r.Context(), p, id); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Watch Later added"})
}

func (h *WatchLaterHandler) remove(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Store.DeleteWatchLater(r.Context(), p, id); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Watch Later removed"})
}
