package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

var created = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeUsers is a scripted UserService. Unset hooks fall back to simple
// in-memory behaviour around a single user "dan@example.com" with id 1.
type fakeUsers struct {
	registerFn     func(models.UserCreate) (*models.User, error)
	getFn          func(int64) (*models.User, error)
	listFn         func() ([]*models.User, error)
	updateFn       func(int64, models.UserUpdate) (*models.User, error)
	loginFn        func(string, string) (*models.Token, error)
	authenticateFn func(context.Context, string) (*models.User, error)
	addFavoriteFn  func(int64, models.FavoriteCreate) (*models.Favorite, error)
	listFavsFn     func(int64) ([]models.Favorite, error)
	uploadFn       func(int64) (*models.PresignedImage, error)
	imageURLFn     func(*models.User) (*models.PresignedImage, error)
}

func dan() *models.User {
	return &models.User{ID: 1, Email: "dan@example.com", PasswordHash: "secret-hash", Favorites: []models.Favorite{}, CreatedAt: created}
}

func (f *fakeUsers) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	if f.registerFn != nil {
		return f.registerFn(in)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return &models.User{ID: 1, Email: in.Email, PasswordHash: "h", Favorites: []models.Favorite{}, CreatedAt: created}, nil
}

func (f *fakeUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	return dan(), nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	if f.listFn != nil {
		return f.listFn()
	}
	return []*models.User{dan()}, nil
}

func (f *fakeUsers) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	if f.updateFn != nil {
		return f.updateFn(id, in)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	u := dan()
	if in.Username != nil {
		u.Username = in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Image != nil {
		u.Image = in.Image
	}
	return u, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.Token, error) {
	if f.loginFn != nil {
		return f.loginFn(email, password)
	}
	if email != "dan@example.com" || password != "123456" {
		return nil, common.ErrorIncorrectCredentials
	}
	return &models.Token{AccessToken: validToken, TokenType: "bearer"}, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, raw)
	}
	if raw != validToken {
		return nil, common.ErrInvalidToken
	}
	return dan(), nil
}

func (f *fakeUsers) AddFavorite(ctx context.Context, userID int64, in models.FavoriteCreate) (*models.Favorite, error) {
	if f.addFavoriteFn != nil {
		return f.addFavoriteFn(userID, in)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return &models.Favorite{ID: 1, UserID: userID, Item: in.Item, CreatedAt: created}, nil
}

func (f *fakeUsers) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	if f.listFavsFn != nil {
		return f.listFavsFn(userID)
	}
	return []models.Favorite{}, nil
}

func (f *fakeUsers) RequestImageUpload(ctx context.Context, userID int64) (*models.PresignedImage, error) {
	if f.uploadFn != nil {
		return f.uploadFn(userID)
	}
	return nil, common.ErrorImageStorageDisabled
}

func (f *fakeUsers) ImageURL(ctx context.Context, user *models.User) (*models.PresignedImage, error) {
	if f.imageURLFn != nil {
		return f.imageURLFn(user)
	}
	return nil, common.ErrorImageNotSet
}

func newTestServer(t *testing.T, users UserService, pool *sql.DB) *Server {
	t.Helper()
	return NewServer(":0", logging.Discard(), users, pool, []string{"*"})
}

type response struct {
	code   int
	header http.Header
	body   []byte
}

func (r response) json(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, headers map[string]string) response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return response{code: rec.Code, header: rec.Header(), body: rec.Body.Bytes()}
}

func doJSON(t *testing.T, s *Server, method, path, body string, headers map[string]string) response {
	t.Helper()
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	return do(t, s, method, path, strings.NewReader(body), h)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
