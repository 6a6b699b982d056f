package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"kudos/internal/auth"
	"kudos/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// avatarURLTTL is how long a presigned avatar upload URL stays valid
const avatarURLTTL = 15 * time.Minute

// Allowed avatar content types
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Store defines the directory operations the handler depends on
type Store interface {
	GetOtherUsers(ctx context.Context, userID string) ([]User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error)
}

// Handler handles HTTP requests for the user directory
type Handler struct {
	store   Store
	storage storage.Service
}

// NewHandler creates a new users handler. storage may be nil when object
// storage is not configured; avatar uploads are then unavailable.
func NewHandler(store Store, storageService storage.Service) *Handler {
	return &Handler{
		store:   store,
		storage: storageService,
	}
}

// GetOthers handles GET /users: everyone except the caller, ordered by first
// name, for the collaborator panel.
func (h *Handler) GetOthers(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	others, err := h.store.GetOtherUsers(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to list users for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": others})
}

// UpdateProfile handles PATCH /profile for the authenticated user
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	// A replaced profile picture leaves its old object orphaned in the
	// bucket, so remember the current key before overwriting it.
	previousPicture := ""
	if req.ProfilePicture != nil && h.storage != nil {
		if current, err := h.store.GetByID(c.Request.Context(), userID); err == nil {
			previousPicture = current.Profile.ProfilePicture
		}
	}

	user, err := h.store.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		log.Printf("Failed to update profile for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update profile"})
		return
	}

	if previousPicture != "" && previousPicture != user.Profile.ProfilePicture {
		if err := h.storage.DeleteFile(c.Request.Context(), previousPicture); err != nil {
			log.Printf("Failed to delete replaced avatar %s for %s: %v", previousPicture, userID, err)
		}
	}

	c.JSON(http.StatusOK, user)
}

// AvatarDownloadURL handles GET /profile/avatar-url. The profile stores the
// raw object key, so clients resolve it into a fetchable image here.
func (h *Handler) AvatarDownloadURL(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Storage service is not available"})
		return
	}

	user, err := h.store.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		log.Printf("Failed to load user %s for avatar url: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve profile"})
		return
	}

	if user.Profile.ProfilePicture == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No profile picture set"})
		return
	}

	downloadURL, err := h.storage.GeneratePresignedDownloadURL(c.Request.Context(), user.Profile.ProfilePicture, avatarURLTTL)
	if err != nil {
		log.Printf("Failed to presign avatar download for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"download_url": downloadURL,
		"expires_at":   time.Now().Add(avatarURLTTL).Unix(),
	})
}

// AvatarUploadRequest is the request payload for a presigned avatar upload URL
type AvatarUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// AvatarUploadURL handles POST /profile/avatar-upload-url, returning a
// presigned PUT URL the client uploads the picture to directly.
func (h *Handler) AvatarUploadURL(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Storage service is not available"})
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !allowedAvatarTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Content type %s is not allowed", req.ContentType)})
		return
	}
	if strings.ContainsAny(req.Filename, "/\\") || strings.Contains(req.Filename, "..") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Filename contains invalid characters"})
		return
	}
	if filepath.Ext(req.Filename) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Filename must have an extension"})
		return
	}

	fileKey := fmt.Sprintf("avatars/%s/%s-%s", userID, uuid.New().String(), req.Filename)

	uploadURL, err := h.storage.GeneratePresignedUploadURL(c.Request.Context(), fileKey, req.ContentType, avatarURLTTL)
	if err != nil {
		log.Printf("Failed to presign avatar upload for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"file_key":   fileKey,
		"expires_at": time.Now().Add(avatarURLTTL).Unix(),
	})
}
