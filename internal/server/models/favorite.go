package models

import "time"

// Favorite is an item reference saved by a user.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Item      string    `json:"item"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteCreate struct {
	Item string `json:"item" validate:"required,max=255"`
}
