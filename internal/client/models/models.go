// Package models holds the client-side view of the accounts API payloads.
package models

import "time"

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Item      string    `json:"item"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  *string    `json:"username"`
	Image     *string    `json:"image"`
	Favorites []Favorite `json:"favorites"`
	CreatedAt time.Time  `json:"created_at"`
}

// DisplayName returns the username when set, otherwise the email.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type PresignedImage struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
