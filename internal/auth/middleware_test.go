package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kudos/internal/session"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func protectedRouter(codec *session.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/home", RequireUser(codec), func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestRequireUser_NoCookieRedirects(t *testing.T) {
	codec := session.NewCodec(testSecret)
	r := protectedRouter(codec)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?redirectTo=%2Fhome" {
		t.Errorf("Expected redirect to /login?redirectTo=%%2Fhome, got %s", loc)
	}
}

func TestRequireUser_InvalidCookieRedirects(t *testing.T) {
	codec := session.NewCodec(testSecret)
	r := protectedRouter(codec)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-valid-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
}

func TestRequireUser_ValidCookiePasses(t *testing.T) {
	codec := session.NewCodec(testSecret)
	r := protectedRouter(codec)

	token, err := codec.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"user_id":"user-42"}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestRequireUser_TokenFromDifferentSecretRejected(t *testing.T) {
	codec := session.NewCodec(testSecret)
	other := session.NewCodec("some-other-signing-secret-entirely!")
	r := protectedRouter(codec)

	token, err := other.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
}

func TestLoginRedirectURL_EscapesPath(t *testing.T) {
	got := LoginRedirectURL("/kudos/recent")
	if got != "/login?redirectTo=%2Fkudos%2Frecent" {
		t.Errorf("Unexpected redirect URL: %s", got)
	}
}
