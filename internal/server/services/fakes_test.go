package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	favoritesrepo "github.com/dmitrijs2005/accounts/internal/server/repositories/favorites"
	usersrepo "github.com/dmitrijs2005/accounts/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs both fake repositories.
type memStore struct {
	mu    sync.Mutex
	users []*models.User
	favs  []models.Favorite

	getByIDCalls int
	failures     map[string]error
}

func newMemStore() *memStore {
	return &memStore{failures: map[string]error{}}
}

func (m *memStore) fail(op string) error {
	return m.failures[op]
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Favorites = []models.Favorite{}
	return &c
}

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = int64(len(r.s.users) + 1)
	u.CreatedAt = time.Now()
	u.Favorites = []models.Favorite{}
	r.s.users = append(r.s.users, cloneUser(u))
	return u, nil
}

func (r *fakeUsersRepo) find(pred func(*models.User) bool) (*models.User, error) {
	for _, u := range r.s.users {
		if pred(u) {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.getByIDCalls++
	if err := r.s.fail("users.GetByID"); err != nil {
		return nil, err
	}
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.GetByEmail"); err != nil {
		return nil, err
	}
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) Update(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Update"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.ID != id {
			continue
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.PasswordHash != nil {
			u.PasswordHash = *p.PasswordHash
		}
		if p.Username != nil {
			u.Username = p.Username
		}
		if p.Image != nil {
			u.Image = p.Image
		}
		return cloneUser(u), nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.List"); err != nil {
		return nil, err
	}
	out := []*models.User{}
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

type fakeFavoritesRepo struct{ s *memStore }

func (r *fakeFavoritesRepo) Create(ctx context.Context, userID int64, item string) (*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("favorites.Create"); err != nil {
		return nil, err
	}
	f := models.Favorite{ID: int64(len(r.s.favs) + 1), UserID: userID, Item: item, CreatedAt: time.Now()}
	r.s.favs = append(r.s.favs, f)
	return &f, nil
}

func (r *fakeFavoritesRepo) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("favorites.ListByUser"); err != nil {
		return nil, err
	}
	out := []models.Favorite{}
	for _, f := range r.s.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFavoritesRepo) ListAll(ctx context.Context) ([]models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("favorites.ListAll"); err != nil {
		return nil, err
	}
	return append([]models.Favorite{}, r.s.favs...), nil
}

type fakeRepoManager struct {
	s *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	return &fakeUsersRepo{m.s}
}

func (m *fakeRepoManager) Favorites(db dbx.DBTX) favoritesrepo.Repository {
	return &fakeFavoritesRepo{m.s}
}

type fakeStorage struct {
	putKey, getKey string
	ttl            time.Duration
	err            error
}

func (f *fakeStorage) PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.putKey, f.ttl = key, ttl
	return "http://s3.local/avatars/" + key + "?X-Amz-Signature=put", nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.getKey, f.ttl = key, ttl
	return "http://s3.local/avatars/" + key + "?X-Amz-Signature=get", nil
}

const testSecret = "test-secret"

type testEnv struct {
	svc    *UserService
	store  *memStore
	mock   sqlmock.Sqlmock
	tokens *auth.TokenManager
	images *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		SecretKey: []byte(testSecret),
		Algorithm: "HS256",
		TTL:       30 * time.Minute,
	})
	require.NoError(t, err)

	store := newMemStore()
	images := &fakeStorage{}
	svc := NewUserService(db, &fakeRepoManager{s: store}, tokens, images, bcrypt.MinCost, logging.Discard())

	return &testEnv{svc: svc, store: store, mock: mock, tokens: tokens, images: images}
}

func (e *testEnv) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := e.svc.Register(context.Background(), models.UserCreate{Email: email, Password: password})
	require.NoError(t, err)
	return u
}

// fakeSession stands in for a request-scoped connection; fake repositories
// never call it.
type fakeSession struct {
	dbx.Session
}

type recordingManager struct {
	fakeRepoManager
	seen *dbx.DBTX
}

func (m *recordingManager) Users(db dbx.DBTX) usersrepo.Repository {
	*m.seen = db
	return m.fakeRepoManager.Users(db)
}
