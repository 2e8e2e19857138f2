// Package models holds the server-side domain types and request payloads.
package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Username     *string    `json:"username"`
	Image        *string    `json:"image"`
	Favorites    []Favorite `json:"favorites"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserCreate is the registration payload.
type UserCreate struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,maxbytes=72"`
	Username *string `json:"username" validate:"omitnil,max=100"`
	Image    *string `json:"image" validate:"omitnil,max=1024"`
}

// UserUpdate is a partial profile update; nil fields are left unchanged.
type UserUpdate struct {
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=1,maxbytes=72"`
	Username *string `json:"username" validate:"omitnil,max=100"`
	Image    *string `json:"image" validate:"omitnil,max=1024"`
}

// UserPatch is the storage-level form of UserUpdate, with the password
// already hashed.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	Username     *string
	Image        *string
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
