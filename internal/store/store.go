package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/models"
)

const (
	titlesPerPage     = 6
	activitiesPerPage = 10
)

// Operation failure sentinels. The underlying store error is logged, never
// returned; callers see only these.
var (
	ErrFetchTitles     = errors.New("failed to fetch titles")
	ErrFetchFavorites  = errors.New("failed to fetch favorites")
	ErrFetchWatchLater = errors.New("failed to fetch watch later")
	ErrFetchGenres     = errors.New("failed to fetch genres")
	ErrFetchActivities = errors.New("failed to fetch activities")

	ErrCheckFavorite    = errors.New("failed to check favorite")
	ErrAddFavorite      = errors.New("failed to add favorite")
	ErrDeleteFavorite   = errors.New("failed to delete favorite")
	ErrCheckWatchLater  = errors.New("failed to check watch later")
	ErrAddWatchLater    = errors.New("failed to add watch later")
	ErrDeleteWatchLater = errors.New("failed to delete watch later")
)

type Store struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Store { return &Store{DB: db, log: log} }

// fail logs the real error and returns the opaque sentinel for it.
func (s *Store) fail(err, sentinel error) error {
	s.log.Error().Err(err).Msg(sentinel.Error())
	return sentinel
}

// TitleFilter is the full predicate/sort/pagination input of a catalog
// query. Page is 1-based; year bounds are inclusive; an empty Genres set
// means no genre restriction; Query is matched as a case-insensitive
// substring of the title after trimming.
type TitleFilter struct {
	Page    int
	MinYear int
	MaxYear int
	Query   string
	Genres  []string
}

// AnnotatedTitle is a catalog row decorated with the requesting user's
// membership state and the derived image path.
type AnnotatedTitle struct {
	models.Title
	Favorited  bool   `json:"favorited"`
	WatchLater bool   `json:"watchLater"`
	Image      string `json:"image"`
}

func imagePath(id string) string { return fmt.Sprintf("/images/%s.webp", id) }

// FetchTitles runs one filtered, paginated catalog query and annotates each
// row against the user's full favorite/watch-later sets.
func (s *Store) FetchTitles(ctx context.Context, p auth.Principal, f TitleFilter) ([]AnnotatedTitle, error) {
	favorites, err := s.membershipSet(ctx, &models.Favorite{}, p)
	if err != nil {
		return nil, s.fail(err, ErrFetchTitles)
	}
	watchLater, err := s.membershipSet(ctx, &models.WatchLater{}, p)
	if err != nil {
		return nil, s.fail(err, ErrFetchTitles)
	}

	q := s.DB.WithContext(ctx).Model(&models.Title{}).
		Where("released >= ?", f.MinYear).
		Where("released <= ?", f.MaxYear)
	if len(f.Genres) > 0 {
		q = q.Where("genre IN ?", f.Genres)
	}
	if needle := strings.TrimSpace(f.Query); needle != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(needle)+"%")
	}

	var rows []models.Title
	if err := q.Order("title ASC").
		Limit(titlesPerPage).
		Offset((f.Page - 1) * titlesPerPage).
		Find(&rows).Error; err != nil {
		return nil, s.fail(err, ErrFetchTitles)
	}
	return annotate(rows, favorites, watchLater), nil
}

// FetchGenres returns the distinct genre values across the catalog.
// Ordering is incidental.
func (s *Store) FetchGenres(ctx context.Context) ([]string, error) {
	var genres []string
	if err := s.DB.WithContext(ctx).Model(&models.Title{}).
		Distinct("genre").
		Pluck("genre", &genres).Error; err != nil {
		return nil, s.fail(err, ErrFetchGenres)
	}
	return genres, nil
}

// membershipSet loads the user's full (unpaginated) title-id set for one
// membership table.
func (s *Store) membershipSet(ctx context.Context, model any, p auth.Principal) (map[string]bool, error) {
	var ids []string
	if err := s.DB.WithContext(ctx).Model(model).
		Where("user_id = ?", p.Email).
		Pluck("title_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func annotate(rows []models.Title, favorites, watchLater map[string]bool) []AnnotatedTitle {
	out := make([]AnnotatedTitle, 0, len(rows))
	for _, t := range rows {
		out = append(out, AnnotatedTitle{
			Title:      t,
			Favorited:  favorites[t.ID],
			WatchLater: watchLater[t.ID],
			Image:      imagePath(t.ID),
		})
	}
	return out
}
