package rest

import (
	"context"
	"database/sql"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestLogger assigns a request id and writes one access log line per
// request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) recoverPanic(c *gin.Context, rec any) {
	s.logger.Error(c.Request.Context(), "panic in handler",
		"request_id", c.GetString(requestIDHeader),
		"panic", rec,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Detail: detailInternal})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// dbSession checks out one pooled connection for the request, exposes it
// through the request context and releases it once the handler chain
// returns, also when a handler panics.
func (s *Server) dbSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.pool == nil {
			c.Next()
			return
		}

		err := dbx.WithConn(c.Request.Context(), s.pool, func(ctx context.Context, conn *sql.Conn) error {
			c.Request = c.Request.WithContext(dbx.ContextWithSession(ctx, conn))
			c.Next()
			return nil
		})
		if err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// authenticate resolves the bearer token to a user and stores it in the
// request context.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			_ = c.Error(common.ErrInvalidToken)
			c.Abort()
			return
		}

		user, err := s.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer x"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
