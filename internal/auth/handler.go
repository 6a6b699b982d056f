package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"kudos/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles authentication HTTP requests
type Handler struct {
	service Service
	codec   *session.Codec
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, codec *session.Codec) *Handler {
	return &Handler{
		service: service,
		codec:   codec,
	}
}

// Register handles POST /register. On success a session cookie is set and
// the client is redirected to the feed.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form submission"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "User already exists with that email",
			})
		case errors.Is(err, ErrCreateFailed):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Something went wrong trying to create a new user.",
				Fields: map[string]string{
					"email":     req.Email,
					"firstName": req.FirstName,
					"lastName":  req.LastName,
				},
			})
		default:
			log.Printf("Registration failed for %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register"})
		}
		return
	}

	h.startSession(c, user.ID, safeRedirect(c.Query("redirectTo")))
}

// Login handles POST /login. Unknown email and wrong password produce the
// same generic response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form submission"})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Incorrect login"})
			return
		}
		log.Printf("Login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	h.startSession(c, user.ID, safeRedirect(c.Query("redirectTo")))
}

// Logout handles GET /logout: the cookie is cleared and the client sent back
// to the login page.
func (h *Handler) Logout(c *gin.Context) {
	session.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}

// Me handles GET /me. A lookup failure of any kind (user row deleted, store
// unavailable) is decided here as a forced logout rather than surfacing a
// server error to the client.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		session.Clear(c)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Session user %s could not be loaded, logging out: %v", userID, err)
		session.Clear(c)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, user)
}

// startSession issues a signed session token, sets the cookie and redirects.
func (h *Handler) startSession(c *gin.Context, userID, redirectTo string) {
	token, err := h.codec.Issue(userID)
	if err != nil {
		log.Printf("Failed to issue session for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create session"})
		return
	}

	session.Write(c, token)
	c.Redirect(http.StatusFound, redirectTo)
}

// safeRedirect keeps post-login redirects on this site. Anything that is
// not a plain local path collapses to the feed.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}
