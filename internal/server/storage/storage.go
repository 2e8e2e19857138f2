// Package storage presigns object storage URLs for profile images.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage hands out presigned URLs; the server never proxies bytes.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewImageKey returns a fresh object key for a profile image of userID.
func NewImageKey(userID int64) string {
	return fmt.Sprintf("users/%d/images/%s", userID, uuid.New())
}
