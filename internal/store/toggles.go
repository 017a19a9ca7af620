package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/models"
)

// FavoriteExists reports whether the user has favorited the title.
func (s *Store) FavoriteExists(ctx context.Context, p auth.Principal, titleID string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("title_id = ? AND user_id = ?", titleID, p.Email).
		Count(&count).Error; err != nil {
		return false, s.fail(err, ErrCheckFavorite)
	}
	return count > 0, nil
}

// InsertFavorite writes the membership row and its FAVORITED activity in one
// transaction. Callers check FavoriteExists first; the store does not enforce
// uniqueness beyond the schema's composite key.
func (s *Store) InsertFavorite(ctx context.Context, p auth.Principal, titleID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Favorite{TitleID: titleID, UserID: p.Email}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Activity{TitleID: titleID, UserID: p.Email, Activity: models.KindFavorited}).Error
	})
	if err != nil {
		return s.fail(err, ErrAddFavorite)
	}
	return nil
}

// DeleteFavorite removes the membership row if present. The REMOVED_FAVORITE
// activity is appended only when a row was actually deleted, so a delete of
// an absent favorite is a silent no-op.
func (s *Store) DeleteFavorite(ctx context.Context, p auth.Principal, titleID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("title_id = ? AND user_id = ?", titleID, p.Email).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Create(&models.Activity{TitleID: titleID, UserID: p.Email, Activity: models.KindRemovedFavorite}).Error
	})
	if err != nil {
		return s.fail(err, ErrDeleteFavorite)
	}
	return nil
}

// WatchLaterExists reports whether the title is on the user's watch-later list.
func (s *Store) WatchLaterExists(ctx context.Context, p auth.Principal, titleID string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.WatchLater{}).
		Where("title_id = ? AND user_id = ?", titleID, p.Email).
		Count(&count).Error; err != nil {
		return false, s.fail(err, ErrCheckWatchLater)
	}
	return count > 0, nil
}

// InsertWatchLater mirrors InsertFavorite for the watch-later list.
func (s *Store) InsertWatchLater(ctx context.Context, p auth.Principal, titleID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.WatchLater{TitleID: titleID, UserID: p.Email}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Activity{TitleID: titleID, UserID: p.Email, Activity: models.KindWatchLater}).Error
	})
	if err != nil {
		return s.fail(err, ErrAddWatchLater)
	}
	return nil
}

// DeleteWatchLater mirrors DeleteFavorite for the watch-later list.
func (s *Store) DeleteWatchLater(ctx context.Context, p auth.Principal, titleID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("title_id = ? AND user_id = ?", titleID, p.Email).Delete(&models.WatchLater{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Create(&models.Activity{TitleID: titleID, UserID: p.Email, Activity: models.KindRemovedWatchLater}).Error
	})
	if err != nil {
		return s.fail(err, ErrDeleteWatchLater)
	}
	return nil
}
