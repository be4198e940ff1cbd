// Package http wires the signup/login/logout/home routes to the user service
// and session manager.
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gatehouse/internal/service"
	"gatehouse/internal/session"
	"gatehouse/internal/validate"
)

// SessionCookie is the name of the session cookie; its value is the opaque
// session token and is the only state the client holds.
const SessionCookie = "gatehouse_session"

// One limiter instance guards both credential endpoints, so a client gets 5
// signup+login attempts combined per window.
const (
	loginRateLimit  = 5
	loginRateWindow = 15 * time.Minute
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	sessions   *session.Manager
	logger     *logrus.Logger
	production bool
	limiter    *rateLimiter
	started    time.Time
}

func NewHandler(users service.UserService, sessions *session.Manager, logger *logrus.Logger, production bool) *Handler {
	return &Handler{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		production: production,
		limiter:    newRateLimiter(loginRateLimit, loginRateWindow),
		started:    time.Now(),
	}
}

// Close stops the limiter's background sweep.
func (h *Handler) Close() {
	h.limiter.stop()
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(loadTemplates())
	router.Use(requestLogger(h.logger), securityHeaders())

	router.GET("/", h.index)
	router.GET("/signup", h.signupForm)
	router.POST("/signup", h.limiter.middleware(), h.signup)
	router.POST("/login", h.limiter.middleware(), h.login)
	router.GET("/health", h.health)

	protected := router.Group("/", h.requireSession())
	protected.GET("/home", h.home)
	protected.POST("/logout", h.logout)

	router.NoRoute(h.notFound)
}

// index serves the login form, or bounces an already-authenticated browser
// straight to the protected home page.
func (h *Handler) index(c *gin.Context) {
	if h.hasLiveSession(c) {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func (h *Handler) signupForm(c *gin.Context) {
	if h.hasLiveSession(c) {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{})
}

func (h *Handler) signup(c *gin.Context) {
	input, msgs := validate.Signup(
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
		c.PostForm("confirm"),
	)
	if len(msgs) > 0 {
		h.errorView(c, http.StatusBadRequest, strings.Join(msgs, "; "), "/signup")
		return
	}

	if _, err := h.users.Signup(c.Request.Context(), input.Username, input.Email, input.Password); err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			// deliberately silent on which field conflicted
			h.errorView(c, http.StatusBadRequest, "already registered", "/signup")
			return
		}
		h.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) login(c *gin.Context) {
	input, msgs := validate.Login(c.PostForm("email"), c.PostForm("password"))
	if len(msgs) > 0 {
		h.errorView(c, http.StatusBadRequest, strings.Join(msgs, "; "), "/")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// identical response for unknown email and wrong password
			h.errorView(c, http.StatusUnauthorized, "invalid email or password", "/")
			return
		}
		h.serverError(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/home")
}

func (h *Handler) home(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		redirectToEntry(c)
		return
	}
	c.HTML(http.StatusOK, "home.tmpl", gin.H{"Username": user.Username})
}

func (h *Handler) logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err == nil && token != "" {
		if derr := h.sessions.Destroy(c.Request.Context(), token); derr != nil {
			// logout still completes; the record ages out via retention
			h.logger.WithError(derr).Warn("destroy session on logout")
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(h.started).String(),
	})
}

func (h *Handler) notFound(c *gin.Context) {
	h.errorView(c, http.StatusNotFound, "page not found", "/")
}

// hasLiveSession is the soft check used by the public forms; it never blocks
// the request, only decides whether to bounce to /home.
func (h *Handler) hasLiveSession(c *gin.Context) bool {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return false
	}
	_, err = h.sessions.Resolve(c.Request.Context(), token)
	return err == nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	if h.production {
		c.SetSameSite(http.SameSiteStrictMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(SessionCookie, token, int(session.Lifetime.Seconds()), "/", "", h.production, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", h.production, true)
}

func (h *Handler) errorView(c *gin.Context, status int, message, back string) {
	c.HTML(status, "error.tmpl", gin.H{"Message": message, "Back": back})
}

// serverError hides infrastructure failures behind a generic message; the
// detail goes to the server log only.
func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.WithError(err).Error("internal error")
	h.errorView(c, http.StatusInternalServerError, "something went wrong, please try again", "/")
}
