package favorites

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository stores the items a user has favorited. Lists are returned in
// creation order.
type Repository interface {
	Create(ctx context.Context, userID int64, item string) (*models.Favorite, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	ListAll(ctx context.Context) ([]models.Favorite, error)
}
