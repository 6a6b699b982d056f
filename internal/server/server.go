package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"kudos/internal/auth"
	"kudos/internal/config"
	"kudos/internal/database"
	"kudos/internal/home"
	"kudos/internal/kudos"
	"kudos/internal/session"
	"kudos/internal/storage"
	"kudos/internal/users"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	port int

	db      database.Service
	storage storage.Service
	codec   *session.Codec

	authHandler  *auth.Handler
	usersHandler *users.Handler
	kudosHandler *kudos.Handler
	homeHandler  *home.Handler
}

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	return &Config{
		Port:         port,
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// NewServer creates and configures a new HTTP server. Missing or weak
// session secrets abort startup rather than surfacing later as broken
// logins.
func NewServer(publisher kudos.EventPublisher, eventTopic string) *http.Server {
	cfg := LoadConfigFromEnv()

	if err := config.ValidateSessionSecret(); err != nil {
		log.Fatalf("[Server] Invalid configuration: %v", err)
	}
	codec := session.NewCodec(os.Getenv("SESSION_SECRET"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	storageService, err := storage.New(ctx)
	if err != nil {
		log.Printf("[Server] Warning: failed to initialize storage service: %v", err)
	} else {
		log.Printf("[Server] Storage service initialized successfully")
	}

	dbService := database.New()
	log.Printf("[Server] Database service initialized")

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")

	authService := auth.NewService(dbService)
	usersRepo := users.NewRepository(dbService)
	kudosRepo := kudos.NewRepository(dbService)
	kudosService := kudos.NewService(kudosRepo, redisAddr, redisPassword, 0, publisher, eventTopic)

	appServer := &Server{
		port:    cfg.Port,
		db:      dbService,
		storage: storageService,
		codec:   codec,

		authHandler:  auth.NewHandler(authService, codec),
		usersHandler: users.NewHandler(usersRepo, storageService),
		kudosHandler: kudos.NewHandler(kudosService),
		homeHandler:  home.NewHandler(usersRepo, kudosService),
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           appServer.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Printf("[Server] HTTP server configured on port %d", cfg.Port)
	return server
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
