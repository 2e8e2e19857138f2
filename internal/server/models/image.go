package models

import "time"

// PresignedImage is a time-limited URL for a profile image object: a PUT
// target for uploads or a GET link for downloads.
type PresignedImage struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
