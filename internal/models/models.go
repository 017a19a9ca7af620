package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Title is a catalog entry. The catalog is seeded by migration and never
// mutated by the application.
type Title struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null;index" json:"title"`
	Released int    `gorm:"not null;index" json:"released"`
	Genre    string `gorm:"not null;index" json:"genre"`
	Synopsis string `json:"synopsis"`
}

func (Title) TableName() string { return "titles" }

// Favorite marks a title as favorited by a user. Pure membership fact:
// the composite key is the whole identity of the row.
type Favorite struct {
	TitleID   string    `gorm:"column:title_id;primaryKey;autoIncrement:false" json:"title_id"`
	UserID    string    `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string { return "favorites" }

// WatchLater mirrors Favorite under its own namespace; a title may be in
// both lists, either, or neither.
type WatchLater struct {
	TitleID   string    `gorm:"column:title_id;primaryKey;autoIncrement:false" json:"title_id"`
	UserID    string    `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (WatchLater) TableName() string { return "watchlater" }

// ActivityKind identifies which toggle produced an activity row.
type ActivityKind string

const (
	KindFavorited         ActivityKind = "FAVORITED"
	KindRemovedFavorite   ActivityKind = "REMOVED_FAVORITE"
	KindWatchLater        ActivityKind = "WATCH_LATER"
	KindRemovedWatchLater ActivityKind = "REMOVED_WATCH_LATER"
)

// Activity is an append-only record of a favorite/watch-later state change.
// Rows are never updated or deleted and may outlive the membership row they
// describe.
type Activity struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	TitleID   string       `gorm:"column:title_id;index;not null" json:"title_id"`
	UserID    string       `gorm:"column:user_id;index;not null" json:"user_id"`
	Activity  ActivityKind `gorm:"not null" json:"activity"`
	Timestamp time.Time    `gorm:"index;not null" json:"timestamp"`
}

func (Activity) TableName() string { return "activities" }

// BeforeCreate fills the id and timestamp app-side so the model behaves the
// same on postgres and the embedded test store.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}
