// Package services contains the server-side business logic. UserService
// covers registration, profile lookup and update, login, bearer token
// authentication, favorites and profile images.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/storage"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
)

const (
	tokenTypeBearer = "bearer"
	imageURLTTL     = 15 * time.Minute

	// hashed once and compared against when the login email is unknown
	dummyPassword = "dummy-password-for-unknown-emails"
)

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Issue(userID int64) (string, error)
	Verify(raw string) (*auth.TokenPayload, error)
}

type UserService struct {
	db           dbx.Session
	repomanager  repomanager.RepositoryManager
	tokens       TokenManager
	images       storage.ObjectStorage
	passwordCost int
	log          logging.Logger
	now          func() time.Time

	comparePassword func(password, hash string) error
	dummyOnce       sync.Once
	dummy           string
}

// NewUserService wires the service. images may be nil, in which case the
// profile image operations report common.ErrorImageStorageDisabled.
func NewUserService(db dbx.Session, m repomanager.RepositoryManager, tokens TokenManager,
	images storage.ObjectStorage, passwordCost int, log logging.Logger) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		tokens:       tokens,
		images:       images,
		passwordCost: passwordCost,
		log:          log.With("module", "services.user"),
		now:          time.Now,

		comparePassword: auth.ComparePasswordAndHash,
	}
}

// session returns the request-scoped connection if one is in ctx.
func (s *UserService) session(ctx context.Context) dbx.Session {
	return dbx.SessionFromContext(ctx, s.db)
}

// Register validates in, hashes the password and stores the new user.
func (s *UserService) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Username:     in.Username,
		Image:        in.Image,
	}

	u, err := s.repomanager.Users(s.session(ctx)).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Get returns the user with its favorites.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	db := s.session(ctx)

	u, err := s.repomanager.Users(db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	favs, err := s.repomanager.Favorites(db).ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Favorites = favs

	return u, nil
}

// List returns every user in creation order, each with its favorites.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	db := s.session(ctx)

	users, err := s.repomanager.Users(db).List(ctx)
	if err != nil {
		return nil, err
	}

	favs, err := s.repomanager.Favorites(db).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]models.Favorite, len(users))
	for _, f := range favs {
		byUser[f.UserID] = append(byUser[f.UserID], f)
	}

	for _, u := range users {
		if f, ok := byUser[u.ID]; ok {
			u.Favorites = f
		}
	}

	return users, nil
}

// Update applies the present fields of in to user id. A new password is
// re-hashed before it reaches the repository.
func (s *UserService) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	patch := models.UserPatch{
		Email:    in.Email,
		Username: in.Username,
		Image:    in.Image,
	}

	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, s.passwordCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.session(ctx), nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Update(ctx, id, patch)
		if err != nil {
			return err
		}

		favs, err := s.repomanager.Favorites(tx).ListByUser(ctx, id)
		if err != nil {
			return err
		}
		u.Favorites = favs

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks email and password and issues an access token. An unknown
// email and a wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	user, err := s.repomanager.Users(s.session(ctx)).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time of unknown emails close to wrong passwords
			_ = s.comparePassword(password, s.dummyHash(ctx))
			return nil, common.ErrorIncorrectCredentials
		}
		return nil, err
	}

	if err := s.comparePassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &models.Token{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// dummyHash is a bcrypt hash at the configured cost. An empty result only
// makes the comparison fail faster.
func (s *UserService) dummyHash(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword(dummyPassword, s.passwordCost)
		if err != nil {
			s.log.Error(ctx, "dummy password hash failed", "error", err)
			return
		}
		s.dummy = h
	})
	return s.dummy
}

// Authenticate resolves a raw bearer token to its user. Token failures
// wrap common.ErrInvalidToken; a valid token whose user no longer exists
// yields common.ErrorNotFound. Exactly one repository read is made.
func (s *UserService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	payload, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.session(ctx)).GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, nil
}

// AddFavorite stores a favorite item for userID.
func (s *UserService) AddFavorite(ctx context.Context, userID int64, in models.FavoriteCreate) (*models.Favorite, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	return s.repomanager.Favorites(s.session(ctx)).Create(ctx, userID, in.Item)
}

func (s *UserService) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	return s.repomanager.Favorites(s.session(ctx)).ListByUser(ctx, userID)
}

// RequestImageUpload presigns a PUT for a fresh object key and records that
// key as the user's image.
func (s *UserService) RequestImageUpload(ctx context.Context, userID int64) (*models.PresignedImage, error) {
	if s.images == nil {
		return nil, common.ErrorImageStorageDisabled
	}

	key := storage.NewImageKey(userID)
	expires := s.now().Add(imageURLTTL)

	url, err := s.images.PresignPut(ctx, key, imageURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	if _, err := s.repomanager.Users(s.session(ctx)).Update(ctx, userID, models.UserPatch{Image: &key}); err != nil {
		return nil, err
	}

	return &models.PresignedImage{Key: key, URL: url, ExpiresAt: expires}, nil
}

// ImageURL presigns a GET for the user's current image.
func (s *UserService) ImageURL(ctx context.Context, user *models.User) (*models.PresignedImage, error) {
	if s.images == nil {
		return nil, common.ErrorImageStorageDisabled
	}
	if user.Image == nil || *user.Image == "" {
		return nil, common.ErrorImageNotSet
	}

	expires := s.now().Add(imageURLTTL)

	url, err := s.images.PresignGet(ctx, *user.Image, imageURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	return &models.PresignedImage{Key: *user.Image, URL: url, ExpiresAt: expires}, nil
}
