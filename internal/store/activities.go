package store

import (
	"context"
	"fmt"
	"time"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/models"
)

// ActivityEntry is one feed line: the stored event rendered as a sentence,
// with the timestamp normalized to a single string form.
type ActivityEntry struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

type activityRow struct {
	ID        string
	Timestamp time.Time
	Activity  models.ActivityKind
	Title     string
}

// FetchActivities returns one page of the user's feed, most recent first.
func (s *Store) FetchActivities(ctx context.Context, p auth.Principal, page int) ([]ActivityEntry, error) {
	var rows []activityRow
	if err := s.DB.WithContext(ctx).Model(&models.Activity{}).
		Select("activities.id, activities.timestamp, activities.activity, titles.title").
		Joins("INNER JOIN titles ON activities.title_id = titles.id").
		Where("activities.user_id = ?", p.Email).
		Order("activities.timestamp DESC").
		Limit(activitiesPerPage).
		Offset((page - 1) * activitiesPerPage).
		Scan(&rows).Error; err != nil {
		return nil, s.fail(err, ErrFetchActivities)
	}

	out := make([]ActivityEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActivityEntry{
			ID:          r.ID,
			Timestamp:   r.Timestamp.UTC().Format(time.RFC3339),
			Description: describe(r.Activity, r.Title),
		})
	}
	return out, nil
}

func describe(kind models.ActivityKind, title string) string {
	switch kind {
	case models.KindFavorited:
		return fmt.Sprintf("Favorited %s", title)
	case models.KindRemovedFavorite:
		return fmt.Sprintf("Unfavorited %s", title)
	case models.KindWatchLater:
		return fmt.Sprintf("Added %s to Watch Later", title)
	case models.KindRemovedWatchLater:
		return fmt.Sprintf("Removed %s from Watch Later", title)
	default:
		return fmt.Sprintf("%s %s", kind, title)
	}
}
