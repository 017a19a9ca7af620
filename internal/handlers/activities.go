package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
)

type ActivityHandler struct {
	Store *store.Store
}

func NewActivityHandler(s *store.Store) *ActivityHandler { return &ActivityHandler{Store: s} }

// List: GET /v1/activities?page=1
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
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
	activities, err := h.Store.FetchActivities(r.Context(), p, page)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"activities": activities})
}
