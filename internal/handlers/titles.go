package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
	"github.com/chris85gillis/atlas-cinema-guru/internal/validate"
)

type TitleHandler struct {
	Store *store.Store
}

func NewTitleHandler(s *store.Store) *TitleHandler { return &TitleHandler{Store: s} }

// List: GET /v1/titles?page=1&minYear=1990&maxYear=2024&query=shark&genres=Drama,Comedy
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	type qT struct {
		Page    int    `validate:"gte=1"`
		MinYear int    `validate:"gte=0,ltefield=MaxYear"`
		MaxYear int    `validate:"gte=0"`
		Query   string `validate:"max=200"`
	}
	q := qT{Page: 1, MinYear: 0, MaxYear: time.Now().Year()}
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badParam(w, "page")
			return
		}
		q.Page = n
	}
	if v := r.URL.Query().Get("minYear"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badParam(w, "minYear")
			return
		}
		q.MinYear = n
	}
	if v := r.URL.Query().Get("maxYear"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badParam(w, "maxYear")
			return
		}
		q.MaxYear = n
	}
	q.Query = r.URL.Query().Get("query")
	if errs := validate.Map(q); errs != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errs)
		return
	}

	filter := store.TitleFilter{
		Page:    q.Page,
		MinYear: q.MinYear,
		MaxYear: q.MaxYear,
		Query:   q.Query,
		Genres:  splitGenres(r.URL.Query().Get("genres")),
	}
	titles, err := h.Store.FetchTitles(r.Context(), p, filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"titles": titles})
}

// Genres: GET /v1/genres
func (h *TitleHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.Store.FetchGenres(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"genres": genres})
}

// splitGenres parses the comma-separated genres param. Absent or blank means
// no genre restriction.
func splitGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, g := range parts {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func badParam(w http.ResponseWriter, name string) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{name: "must be an integer"})
}

// pageParam parses the common ?page= query, defaulting to 1.
func pageParam(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
