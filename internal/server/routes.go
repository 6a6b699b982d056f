package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kudos/internal/auth"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // session cookie
	}))

	r.GET("/health", s.healthHandler)

	// Public auth endpoints
	r.POST("/register", s.authHandler.Register)
	r.POST("/login", s.authHandler.Login)
	r.GET("/logout", s.authHandler.Logout)

	// Everything below requires a valid session cookie
	protected := r.Group("/", auth.RequireUser(s.codec))
	{
		protected.GET("/home", s.homeHandler.Load)
		protected.GET("/me", s.authHandler.Me)
		protected.GET("/users", s.usersHandler.GetOthers)

		protected.POST("/kudos", s.kudosHandler.Create)
		protected.GET("/kudos", s.kudosHandler.List)
		protected.GET("/kudos/recent", s.kudosHandler.ListRecent)

		protected.PATCH("/profile", s.usersHandler.UpdateProfile)
		protected.POST("/profile/avatar-upload-url", s.usersHandler.AvatarUploadURL)
		protected.GET("/profile/avatar-url", s.usersHandler.AvatarDownloadURL)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	response := make(map[string]interface{})

	response["database"] = s.db.Health()

	if s.storage != nil {
		if err := s.storage.Health(c.Request.Context()); err != nil {
			response["storage"] = map[string]string{"status": "down", "error": err.Error()}
		} else {
			response["storage"] = map[string]string{"status": "up"}
		}
	} else {
		response["storage"] = map[string]string{"status": "disabled"}
	}

	status := http.StatusOK
	if db, ok := response["database"].(map[string]string); ok && db["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

func allowedOrigins() []string {
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:5173"}
}
