package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// LoginForm is the OAuth2 password-flow body of POST /login/token; the
// username field carries the email.
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(validation.DecodeError(err))
		return
	}
	if err := validation.Struct(form); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := s.users.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) register(c *gin.Context) {
	var in models.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(validation.DecodeError(err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := s.users.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var in models.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(validation.DecodeError(err))
		return
	}

	user, err := s.users.Update(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	favs, err := s.users.ListFavorites(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	user.Favorites = favs

	c.JSON(http.StatusOK, user)
}

func (s *Server) listFavorites(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	favs, err := s.users.ListFavorites(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, favs)
}

func (s *Server) addFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in models.FavoriteCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(validation.DecodeError(err))
		return
	}

	fav, err := s.users.AddFavorite(c.Request.Context(), user.ID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, fav)
}

func (s *Server) requestImageUpload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	img, err := s.users.RequestImageUpload(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, img)
}

func (s *Server) imageURL(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	img, err := s.users.ImageURL(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, img)
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(validation.PathInt("user_id"))
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		_ = c.Error(common.ErrInvalidToken)
		return nil, false
	}
	return user, true
}
