package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/models"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
)

const testEmail = "viewer@example.com"

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Title{}, &models.Favorite{}, &models.WatchLater{}, &models.Activity{}))
	titles := []models.Title{
		{ID: "m1", Title: "Arrival Lane", Released: 1995, Genre: "Drama"},
		{ID: "m2", Title: "Border Static", Released: 2004, Genre: "Thriller"},
		{ID: "m3", Title: "Copper Canyon", Released: 1978, Genre: "Western"},
	}
	for i := range titles {
		require.NoError(t, db.Create(&titles[i]).Error)
	}
	return store.New(db, zerolog.Nop())
}

// stubAuth stands in for the verifier middleware.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithPrincipal(r.Context(), auth.Principal{Email: testEmail})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func mountRoutes(st *store.Store, r chi.Router) {
	titleHandler := NewTitleHandler(st)
	favHandler := NewFavoriteHandler(st)
	wlHandler := NewWatchLaterHandler(st)
	actHandler := NewActivityHandler(st)
	r.Get("/titles", titleHandler.List)
	r.Get("/genres", titleHandler.Genres)
	r.Route("/favorites", favHandler.Routes)
	r.Route("/watch-later", wlHandler.Routes)
	r.Get("/activities", actHandler.List)
}

func newTestRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(stubAuth)
		mountRoutes(st, r)
	})
	return r, st
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestListTitles(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/titles?page=1&minYear=1990&maxYear=2010")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Titles []store.AnnotatedTitle `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Titles, 2)
	assert.Equal(t, "m1", body.Titles[0].ID)
	assert.Equal(t, "/images/m1.webp", body.Titles[0].Image)
}

func TestListTitlesGenreFilter(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/titles?genres=Drama,Western")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Titles []store.AnnotatedTitle `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Titles, 2)
	for _, at := range body.Titles {
		assert.Contains(t, []string{"Drama", "Western"}, at.Genre)
	}
}

func TestListTitlesBadParams(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/titles?page=abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/titles?page=0").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/titles?minYear=2020&maxYear=2000").Code)
}

func TestFavoriteToggleIdempotent(t *testing.T) {
	h, st := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/favorites/m1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Favorite added", decodeMsg(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/v1/favorites/m1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already favorited", decodeMsg(t, rec)["message"])

	var memberships, activities int64
	require.NoError(t, st.DB.Model(&models.Favorite{}).Where("user_id = ?", testEmail).Count(&memberships).Error)
	require.NoError(t, st.DB.Model(&models.Activity{}).Where("user_id = ? AND activity = ?", testEmail, models.KindFavorited).Count(&activities).Error)
	assert.EqualValues(t, 1, memberships)
	assert.EqualValues(t, 1, activities)

	rec = do(t, h, http.MethodDelete, "/v1/favorites/m1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Favorite removed", decodeMsg(t, rec)["message"])
}

func TestWatchLaterToggleIdempotent(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/watch-later/m2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Watch Later added", decodeMsg(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/v1/watch-later/m2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already added to Watch Later", decodeMsg(t, rec)["message"])

	rec = do(t, h, http.MethodDelete, "/v1/watch-later/m2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Watch Later removed", decodeMsg(t, rec)["message"])
}

func TestFavoritesListPage(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/v1/favorites/m1")
	do(t, h, http.MethodPost, "/v1/favorites/m3")

	rec := do(t, h, http.MethodGet, "/v1/favorites?page=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Titles []store.AnnotatedTitle `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Titles, 2)
	// ordered by release year
	assert.Equal(t, "m3", body.Titles[0].ID)
	assert.True(t, body.Titles[0].Favorited)
}

func TestActivitiesFeed(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/v1/favorites/m1")

	rec := do(t, h, http.MethodGet, "/v1/activities")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Activities []store.ActivityEntry `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Activities, 1)
	assert.Equal(t, "Favorited Arrival Lane", body.Activities[0].Description)
	assert.NotEmpty(t, body.Activities[0].Timestamp)
}

func TestGenres(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/genres")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Genres []string `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"Drama", "Thriller", "Western"}, body.Genres)
}

// With no principal in context every user-scoped route refuses before
// touching the store.
func TestUnauthenticatedRejected(t *testing.T) {
	st := newTestStore(t)
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) { mountRoutes(st, r) })

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/v1/titles"},
		{http.MethodGet, "/v1/favorites"},
		{http.MethodPost, "/v1/favorites/m1"},
		{http.MethodDelete, "/v1/favorites/m1"},
		{http.MethodGet, "/v1/watch-later"},
		{http.MethodPost, "/v1/watch-later/m1"},
		{http.MethodDelete, "/v1/watch-later/m1"},
		{http.MethodGet, "/v1/activities"},
	} {
		rec := do(t, r, tc.method, tc.target)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}

	var n int64
	require.NoError(t, st.DB.Model(&models.Activity{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
