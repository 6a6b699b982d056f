package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"kudos/internal/config"
	"kudos/internal/consul"
	"kudos/internal/database"
	kafkapkg "kudos/internal/kafka"
	"kudos/internal/kudos"
	"kudos/internal/logger"
	"kudos/internal/server"
)

func main() {
	lgr := logger.New("kudos-web")
	logger.SetDefault(lgr)

	log.Println("Starting Kudos web service...")

	if err := database.Migrate(database.DSN()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database schema up to date")

	// Kafka producer is optional, the app degrades to no notifications
	var publisher kudos.EventPublisher
	var kafkaProducer *kafkapkg.Producer
	eventTopic := ""

	if os.Getenv("KAFKA_BROKERS") != "" && config.GetEnvOrDefault("ENABLE_KAFKA", "true") == "true" {
		kafkaConfig, err := kafkapkg.LoadConfig()
		if err != nil {
			log.Printf("Failed to load Kafka config, notifications disabled: %v", err)
		} else {
			kafkaProducer, err = kafkapkg.NewProducer(kafkaConfig, lgr)
			if err != nil {
				log.Printf("Failed to create Kafka producer, notifications disabled: %v", err)
			} else {
				publisher = kafkaProducer
				eventTopic = kafkaConfig.KudoEventsTopic
				defer kafkaProducer.Close()
			}
		}
	} else {
		log.Println("Kafka disabled, notifications will not be sent")
	}

	srv := server.NewServer(publisher, eventTopic)

	// Consul registration is optional as well
	var consulClient *consul.Client
	serviceID := ""

	if consulAddr := os.Getenv("CONSUL_HTTP_ADDR"); consulAddr != "" {
		client, err := consul.NewClientWithToken(consulAddr, os.Getenv("CONSUL_HTTP_TOKEN"))
		if err != nil {
			log.Printf("Failed to create Consul client, skipping registration: %v", err)
		} else {
			host := config.GetEnvOrDefault("SERVICE_HOST", "localhost")
			port, _ := strconv.Atoi(config.GetEnvOrDefault("PORT", "8080"))
			serviceID, err = client.RegisterWebService("kudos-web", host, port, []string{"kudos", "web"})
			if err != nil {
				log.Printf("Failed to register with Consul: %v", err)
			} else {
				consulClient = client
				log.Printf("Registered with Consul as %s", serviceID)
			}
		}
	}

	go func() {
		log.Printf("Kudos web service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Kudos web service...")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			log.Printf("Failed to deregister from Consul: %v", err)
		} else {
			log.Println("Deregistered from Consul")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Kudos web service stopped")
}
