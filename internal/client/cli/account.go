package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/client/client"
	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/netx"
)

// uploadFile is a test seam for the object storage upload.
var uploadFile = netx.UploadFileToPresignedURL

// authorized forgets the session when the server rejected the token.
func (a *App) authorized(err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotLoggedIn) {
		a.user = nil
		return fmt.Errorf("%w, please log in again", err)
	}
	return err
}

func (a *App) printUser(u *models.User) {
	fmt.Fprintf(a.out, "#%d %s", u.ID, u.Email)
	if u.Username != nil {
		fmt.Fprintf(a.out, " (%s)", *u.Username)
	}
	fmt.Fprintln(a.out)
	for _, f := range u.Favorites {
		fmt.Fprintf(a.out, "  * %s\n", f.Item)
	}
}

func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return a.authorized(err)
	}
	a.user = user
	a.printUser(user)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		a.printUser(&users[i])
	}
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	favs, err := a.api.ListFavorites(ctx)
	if err != nil {
		return a.authorized(err)
	}
	if len(favs) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
	}
	for _, f := range favs {
		fmt.Fprintf(a.out, "%d. %s\n", f.ID, f.Item)
	}
	return nil
}

func (a *App) AddFavorite(ctx context.Context, item string) error {
	fav, err := a.api.AddFavorite(ctx, item)
	if err != nil {
		return a.authorized(err)
	}
	fmt.Fprintf(a.out, "Added %q\n", fav.Item)
	return nil
}

// SetUsername renames the logged-in user.
func (a *App) SetUsername(ctx context.Context, name string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	user, err := a.api.UpdateUsername(ctx, a.user.ID, name)
	if err != nil {
		return err
	}

	a.user = user
	fmt.Fprintf(a.out, "Username set to %s\n", user.DisplayName())
	return nil
}

// UploadImage requests an upload URL for a new profile image. With a path
// the file is uploaded right away, otherwise the URL is printed.
func (a *App) UploadImage(ctx context.Context, path string) error {
	img, err := a.api.RequestImageUpload(ctx)
	if err != nil {
		return a.authorized(err)
	}

	if path == "" {
		fmt.Fprintf(a.out, "PUT your image to the URL below before %s:\n%s\n", img.ExpiresAt.Format(time.Kitchen), img.URL)
		return nil
	}

	if err := uploadFile(ctx, http.DefaultClient, img.URL, path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s\n", path)
	return nil
}

func (a *App) ShowImage(ctx context.Context) error {
	img, err := a.api.ImageURL(ctx)
	if err != nil {
		return a.authorized(err)
	}
	fmt.Fprintln(a.out, img.URL)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Server is online")
	return nil
}
