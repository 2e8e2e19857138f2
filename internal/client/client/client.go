package client

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	IsLoggedIn() bool
	Me(ctx context.Context) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) (*models.User, error)
	AddFavorite(ctx context.Context, item string) (*models.Favorite, error)
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	RequestImageUpload(ctx context.Context) (*models.PresignedImage, error)
	ImageURL(ctx context.Context) (*models.PresignedImage, error)
}
