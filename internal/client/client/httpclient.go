package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/accounts/internal/client/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:8080". A zero timeout means no per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *HTTPClient) IsLoggedIn() bool {
	return c.token() != ""
}

// Logout forgets the access token. Tokens are stateless, so there is
// nothing to revoke on the server.
func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/ping", nil, &out, false); err != nil {
		return err
	}
	if out.Status != "OK" {
		return fmt.Errorf("%w: status %q", ErrUnavailable, out.Status)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email string, password []byte) (*models.User, error) {
	in := map[string]string{"email": email, "password": string(password)}

	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", in, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token and keeps it for
// subsequent protected calls.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	form := url.Values{"username": {email}, "password": {string(password)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token models.Token
	if err := c.send(req, &token, false); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return fmt.Errorf("empty access token in login response")
	}

	c.setToken(token.AccessToken)
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/", nil, &users, false); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) UpdateUsername(ctx context.Context, id int64, username string) (*models.User, error) {
	in := map[string]string{"username": username}

	var user models.User
	path := "/users/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodPut, path, in, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) AddFavorite(ctx context.Context, item string) (*models.Favorite, error) {
	in := map[string]string{"item": item}

	var fav models.Favorite
	if err := c.doJSON(ctx, http.MethodPost, "/users/me/favorites", in, &fav, true); err != nil {
		return nil, err
	}
	return &fav, nil
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/favorites", nil, &favs, true); err != nil {
		return nil, err
	}
	return favs, nil
}

func (c *HTTPClient) RequestImageUpload(ctx context.Context) (*models.PresignedImage, error) {
	var img models.PresignedImage
	if err := c.doJSON(ctx, http.MethodPost, "/users/me/image", nil, &img, true); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *HTTPClient) ImageURL(ctx context.Context) (*models.PresignedImage, error) {
	var img models.PresignedImage
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/image", nil, &img, true); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out, auth)
}

// send executes req and decodes a 2xx body into out. With auth set the
// stored token is attached; a 403 then drops it.
func (c *HTTPClient) send(req *http.Request, out any, auth bool) error {
	req.Header.Set("Accept", "application/json")

	if auth {
		token := c.token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := mapStatus(resp.StatusCode, data); err != nil {
		if auth && resp.StatusCode == http.StatusForbidden {
			c.Logout()
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(status int, body []byte) error {
	switch {
	case status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, parseDetail(body))
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrUnavailable, parseDetail(body))
	default:
		return &APIError{Status: status, Detail: parseDetail(body)}
	}
}
