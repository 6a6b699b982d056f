package auth

import (
	"net/http"
	"net/url"

	"kudos/internal/session"

	"github.com/gin-gonic/gin"
)

// contextUserKey is where middleware stores the authenticated user id
const contextUserKey = "user_id"

// RequireUser validates the session cookie and injects the user id into the
// request context. Unauthenticated requests are redirected to the login page
// with the original path preserved, so the user lands back where they started
// after logging in.
func RequireUser(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := codec.Parse(session.Read(c))
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by RequireUser.
func CurrentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

// LoginRedirectURL builds the login redirect target for the given path.
func LoginRedirectURL(path string) string {
	return "/login?redirectTo=" + url.QueryEscape(path)
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.Path))
	c.Abort()
}
