package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gatehouse/internal/domain"
	"gatehouse/internal/repository"
	"gatehouse/internal/session"
)

// ctxUserKey carries the authenticated user through the gin context.
const ctxUserKey = "auth.user"

// requireSession gates protected routes. Absent, expired, or tampered tokens
// redirect to the entry point. A session whose backing user no longer exists
// is destroyed on sight; a resolved token alone is never trusted.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			redirectToEntry(c)
			return
		}

		userID, err := h.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				h.clearSessionCookie(c)
				redirectToEntry(c)
				return
			}
			h.serverError(c, err)
			c.Abort()
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				if derr := h.sessions.Destroy(c.Request.Context(), token); derr != nil {
					h.logger.WithError(derr).Warn("destroy orphaned session")
				}
				h.clearSessionCookie(c)
				redirectToEntry(c)
				return
			}
			h.serverError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func redirectToEntry(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// requestLogger logs one line per request with method, path, status, latency.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}).Info("request")
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Next()
	}
}
