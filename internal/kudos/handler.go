package kudos

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kudos/internal/auth"
)

// Feed is the operations the HTTP layer needs from the kudos service
type Feed interface {
	SendKudo(ctx context.Context, authorID string, req CreateKudoRequest) (*Kudo, error)
	Feed(ctx context.Context, filter FeedFilter) ([]Kudo, error)
	Recent(ctx context.Context) ([]Kudo, error)
}

// Handler handles HTTP requests for kudos
type Handler struct {
	feed Feed
}

func NewHandler(feed Feed) *Handler {
	return &Handler{feed: feed}
}

// Create handles POST /kudos
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req CreateKudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	if req.RecipientID == userID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot send kudos to yourself"})
		return
	}

	kudo, err := h.feed.SendKudo(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrRecipientNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to send kudo"})
		return
	}

	c.JSON(http.StatusCreated, kudo)
}

// List handles GET /kudos
func (h *Handler) List(c *gin.Context) {
	filter := FilterFromQuery(c)

	kudos, err := h.feed.Feed(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load kudos"})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Kudos: kudos})
}

// ListRecent handles GET /kudos/recent
func (h *Handler) ListRecent(c *gin.Context) {
	kudos, err := h.feed.Recent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load recent kudos"})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Kudos: kudos})
}

// FilterFromQuery reads sort and filter query params. Unknown sort
// values fall back to the date ordering.
func FilterFromQuery(c *gin.Context) FeedFilter {
	filter := FeedFilter{
		Sort:   c.Query("sort"),
		Search: c.Query("filter"),
	}
	switch filter.Sort {
	case "sender", "emoji":
	default:
		filter.Sort = "date"
	}
	return filter
}
