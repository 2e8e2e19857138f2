package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/client/client"
	"github.com/dmitrijs2005/accounts/internal/client/models"
)

type fakeAPI struct {
	token string

	pingErr     error
	pings       int
	registerErr error
	loginErr    error
	meErr       error
	listErr     error
	favErr      error
	updateErr   error
	imageErr    error

	regEmail   string
	regPass    []byte
	loginEmail string
	loginPass  []byte
	added      []string
	renamedID  int64
	favorites  []models.Favorite
	users      []models.User
}

func (f *fakeAPI) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeAPI) Register(_ context.Context, email string, password []byte) (*models.User, error) {
	f.regEmail, f.regPass = email, append([]byte(nil), password...)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 2, Email: email}, nil
}

func (f *fakeAPI) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token = "tok"
	return nil
}

func (f *fakeAPI) Logout() {
	f.token = ""
}

func (f *fakeAPI) IsLoggedIn() bool {
	return f.token != ""
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	if f.token == "" {
		return nil, client.ErrNotLoggedIn
	}
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &models.User{ID: 1, Email: "dan@example.com", Favorites: f.favorites}, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	return f.users, f.listErr
}

func (f *fakeAPI) UpdateUsername(_ context.Context, id int64, username string) (*models.User, error) {
	f.renamedID = id
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.User{ID: id, Email: "dan@example.com", Username: &username}, nil
}

func (f *fakeAPI) AddFavorite(_ context.Context, item string) (*models.Favorite, error) {
	if f.favErr != nil {
		return nil, f.favErr
	}
	f.added = append(f.added, item)
	return &models.Favorite{ID: int64(len(f.added)), UserID: 1, Item: item}, nil
}

func (f *fakeAPI) ListFavorites(context.Context) ([]models.Favorite, error) {
	if f.favErr != nil {
		return nil, f.favErr
	}
	return f.favorites, nil
}

func (f *fakeAPI) RequestImageUpload(context.Context) (*models.PresignedImage, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return &models.PresignedImage{Key: "k", URL: "http://s3/put", ExpiresAt: time.Date(2025, 1, 1, 15, 4, 0, 0, time.UTC)}, nil
}

func (f *fakeAPI) ImageURL(context.Context) (*models.PresignedImage, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return &models.PresignedImage{Key: "k", URL: "http://s3/get"}, nil
}

func newTestApp(api *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: api, out: &out, reader: bufio.NewReader(bytes.NewReader(nil))}, &out
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
