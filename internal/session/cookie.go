package session

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie sent to and received from the client.
const CookieName = "kudos-session"

// Write sets the session cookie on the response.
func Write(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		CookieName,
		token,
		int(MaxAge.Seconds()),
		"/",
		"",
		secureCookies(),
		true, // httpOnly
	)
}

// Clear instructs the client to drop the session cookie immediately. There is
// no server-side bookkeeping to undo.
func Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

// Read returns the session token from the request cookie, or "" if absent.
func Read(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func secureCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}
