package store

import (
	"context"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/models"
)

// FetchFavorites returns one page of the user's favorited titles, oldest
// release first. Every row is favorited by construction; watch-later state
// is annotated from the user's full set.
func (s *Store) FetchFavorites(ctx context.Context, p auth.Principal, page int) ([]AnnotatedTitle, error) {
	watchLater, err := s.membershipSet(ctx, &models.WatchLater{}, p)
	if err != nil {
		return nil, s.fail(err, ErrFetchFavorites)
	}

	var rows []models.Title
	if err := s.DB.WithContext(ctx).Model(&models.Title{}).
		Joins("INNER JOIN favorites ON favorites.title_id = titles.id").
		Where("favorites.user_id = ?", p.Email).
		Order("titles.released ASC").
		Limit(titlesPerPage).
		Offset((page - 1) * titlesPerPage).
		Find(&rows).Error; err != nil {
		return nil, s.fail(err, ErrFetchFavorites)
	}

	out := make([]AnnotatedTitle, 0, len(rows))
	for _, t := range rows {
		out = append(out, AnnotatedTitle{
			Title:      t,
			Favorited:  true,
			WatchLater: watchLater[t.ID],
			Image:      imagePath(t.ID),
		})
	}
	return out, nil
}

// FetchWatchLater mirrors FetchFavorites for the watch-later list.
func (s *Store) FetchWatchLater(ctx context.Context, p auth.Principal, page int) ([]AnnotatedTitle, error) {
	favorites, err := s.membershipSet(ctx, &models.Favorite{}, p)
	if err != nil {
		return nil, s.fail(err, ErrFetchWatchLater)
	}

	var rows []models.Title
	if err := s.DB.WithContext(ctx).Model(&models.Title{}).
		Joins("INNER JOIN watchlater ON watchlater.title_id = titles.id").
		Where("watchlater.user_id = ?", p.Email).
		Order("titles.released ASC").
		Limit(titlesPerPage).
		Offset((page - 1) * titlesPerPage).
		Find(&rows).Error; err != nil {
		return nil, s.fail(err, ErrFetchWatchLater)
	}

	out := make([]AnnotatedTitle, 0, len(rows))
	for _, t := range rows {
		out = append(out, AnnotatedTitle{
			Title:      t,
			Favorited:  favorites[t.ID],
			WatchLater: true,
			Image:      imagePath(t.ID),
		})
	}
	return out, nil
}
