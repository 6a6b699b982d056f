package home

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kudos/internal/auth"
	"kudos/internal/kudos"
	"kudos/internal/users"
)

// UserLister returns every user except the one asking
type UserLister interface {
	GetOtherUsers(ctx context.Context, userID string) ([]users.User, error)
}

// Response is the envelope the home page renders from: the user list
// for the sidebar and the kudo feed for the main column
type Response struct {
	Users []users.User `json:"users"`
	Kudos []kudos.Kudo `json:"kudos"`
}

// Handler serves the aggregated home page payload
type Handler struct {
	users UserLister
	feed  kudos.Feed
}

func NewHandler(userLister UserLister, feed kudos.Feed) *Handler {
	return &Handler{users: userLister, feed: feed}
}

// Load handles GET /home. Sort and filter query params narrow the kudo
// feed; the user list is always complete.
func (h *Handler) Load(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()

	others, err := h.users.GetOtherUsers(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	feed, err := h.feed.Feed(ctx, kudos.FilterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load kudos"})
		return
	}

	c.JSON(http.StatusOK, Response{Users: others, Kudos: feed})
}
