package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/gin-gonic/gin"
)

const (
	detailInvalidCredentials = "Could not validate credentials"
	detailUserNotFound       = "User not found"
	detailImageNotFound      = "Image not found"
	detailEmailTaken         = "Email already registered"
	detailIncorrectLogin     = "Incorrect email or password"
	detailImageStorageOff    = "Image storage is not configured"
	detailInternal           = "Internal Server Error"
)

type errorBody struct {
	Detail any `json:"detail"`
}

// errorHandler turns the last error recorded by a handler into a JSON
// response.
func (s *Server) errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := mapError(err)

		if status == http.StatusForbidden {
			c.Header("WWW-Authenticate", "Bearer")
		}

		if status >= http.StatusInternalServerError {
			s.logger.Error(c.Request.Context(), "request failed",
				"request_id", c.GetString(requestIDHeader),
				"path", c.Request.URL.Path,
				"error", err,
			)
		} else {
			s.logger.Debug(c.Request.Context(), "request rejected",
				"request_id", c.GetString(requestIDHeader),
				"status", status,
				"error", err,
			)
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func mapError(err error) (int, errorBody) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, errorBody{Detail: verrs}
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusForbidden, errorBody{Detail: detailInvalidCredentials}
	case errors.Is(err, common.ErrorImageNotSet):
		return http.StatusNotFound, errorBody{Detail: detailImageNotFound}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorBody{Detail: detailUserNotFound}
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, errorBody{Detail: detailEmailTaken}
	case errors.Is(err, common.ErrorIncorrectCredentials):
		return http.StatusBadRequest, errorBody{Detail: detailIncorrectLogin}
	case errors.Is(err, common.ErrorImageStorageDisabled):
		return http.StatusServiceUnavailable, errorBody{Detail: detailImageStorageOff}
	default:
		return http.StatusInternalServerError, errorBody{Detail: detailInternal}
	}
}
