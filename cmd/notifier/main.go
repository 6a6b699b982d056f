package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"kudos/internal/config"
	"kudos/internal/consul"
	"kudos/internal/logger"
	"kudos/internal/notify"
)

func main() {
	lgr := logger.New("kudos-notifier")
	logger.SetDefault(lgr)
	lgr.Info("Starting Kudos notifier...")

	port := config.GetEnvOrDefault("NOTIFIER_PORT", "8081")
	host := config.GetEnvOrDefault("NOTIFIER_HOST", "localhost")
	redisAddr := config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	redisPassword := config.GetEnvOrDefault("REDIS_PASSWORD", "")

	// The notifier has no fallback without a broker, so a missing
	// configuration is fatal before anything else starts.
	kafkaBrokers := config.MustGetEnv("KAFKA_BROKERS")
	kafkaTopic := config.GetEnvOrDefault("KAFKA_TOPIC_KUDO_EVENTS", "kudo-events")
	kafkaDLQTopic := config.GetEnvOrDefault("KAFKA_TOPIC_KUDO_DLQ", "kudo-events-dlq")
	kafkaConsumerGroup := config.GetEnvOrDefault("KAFKA_CONSUMER_GROUP", "kudos-notifier-group")

	lgr.Info("Configuration loaded",
		"port", port,
		"redis", redisAddr,
		"kafka", kafkaBrokers,
		"topic", kafkaTopic)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		lgr.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	lgr.Info("Connected to Redis")

	idempotencyStore := notify.NewIdempotencyStore(redisClient, lgr)

	senderConfig := notify.NewConfig()
	sender := notify.NewSender(senderConfig)
	lgr.Info("Notification sender initialized", "mode", senderConfig.Mode)

	consumerConfig := &notify.ConsumerConfig{
		Brokers:       kafkaBrokers,
		Topic:         kafkaTopic,
		DLQTopic:      kafkaDLQTopic,
		ConsumerGroup: kafkaConsumerGroup,
		MaxRetries:    3,
	}

	consumer, err := notify.NewConsumer(consumerConfig, sender, idempotencyStore, lgr)
	if err != nil {
		lgr.Error("Failed to create Kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		lgr.Info("Starting Kafka consumer...")
		if err := consumer.Start(ctx); err != nil {
			lgr.Error("Consumer error", "error", err)
		}
	}()

	// Small HTTP surface for health checks and monitoring
	r := gin.New()
	r.Use(gin.Recovery())

	handler := notify.NewHandler(redisClient, idempotencyStore, lgr)
	r.GET("/health", handler.HealthCheck)
	r.GET("/stats", handler.Stats)

	var consulClient *consul.Client
	serviceID := ""

	if consulAddr := os.Getenv("CONSUL_HTTP_ADDR"); consulAddr != "" {
		client, err := consul.NewClientWithToken(consulAddr, os.Getenv("CONSUL_HTTP_TOKEN"))
		if err != nil {
			lgr.Error("Failed to create Consul client, skipping registration", "error", err)
		} else {
			portNum, _ := strconv.Atoi(port)
			serviceID, err = client.RegisterWebService("kudos-notifier", host, portNum,
				[]string{"kudos", "notifications", "kafka-consumer"})
			if err != nil {
				lgr.Error("Failed to register with Consul", "error", err)
			} else {
				consulClient = client
				lgr.Info("Registered with Consul", "serviceID", serviceID)
			}
		}
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lgr.Info("Notifier HTTP server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lgr.Error("Failed to start HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("Shutting down Kudos notifier...")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			lgr.Error("Failed to deregister from Consul", "error", err)
		} else {
			lgr.Info("Deregistered from Consul")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lgr.Error("HTTP server forced to shutdown", "error", err)
	}

	lgr.Info("Kudos notifier stopped")
}
