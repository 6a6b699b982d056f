package kafka

import (
	"fmt"
	"os"
)

// Config holds Kafka configuration
type Config struct {
	Brokers           string
	KudoEventsTopic   string
	KudoDLQTopic      string
	ConsumerGroup     string
	EnableIdempotence bool
	Acks              string
}

// LoadConfig loads Kafka configuration from environment variables
func LoadConfig() (*Config, error) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	kudoEventsTopic := os.Getenv("KAFKA_TOPIC_KUDO_EVENTS")
	if kudoEventsTopic == "" {
		kudoEventsTopic = "kudo-events"
	}

	kudoDLQTopic := os.Getenv("KAFKA_TOPIC_KUDO_DLQ")
	if kudoDLQTopic == "" {
		kudoDLQTopic = "kudo-events-dlq"
	}

	consumerGroup := os.Getenv("KAFKA_CONSUMER_GROUP")
	if consumerGroup == "" {
		consumerGroup = "kudos-notifier-group"
	}

	return &Config{
		Brokers:           brokers,
		KudoEventsTopic:   kudoEventsTopic,
		KudoDLQTopic:      kudoDLQTopic,
		ConsumerGroup:     consumerGroup,
		EnableIdempotence: true,
		Acks:              "all",
	}, nil
}
