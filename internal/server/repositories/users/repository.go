package users

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository persists user accounts. Lookups of absent users return
// common.ErrorNotFound; a duplicate email returns common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
