package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore deduplicates kudo notification events
type IdempotencyStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewIdempotencyStore creates a new idempotency store. Deduplication
// records are kept for 24 hours.
func NewIdempotencyStore(redisClient *redis.Client, logger *slog.Logger) *IdempotencyStore {
	return &IdempotencyStore{
		redis:  redisClient,
		ttl:    24 * time.Hour,
		logger: logger,
	}
}

func (s *IdempotencyStore) keyPrefix() string {
	return "notify:sent:"
}

func (s *IdempotencyStore) buildKey(messageID string) string {
	return fmt.Sprintf("%s%s", s.keyPrefix(), messageID)
}

// IsProcessed checks if an event has already been delivered
func (s *IdempotencyStore) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	key := s.buildKey(messageID)

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if message is processed: %w", err)
	}

	return exists > 0, nil
}

// MarkAsProcessed marks an event as delivered. Returns true on first
// delivery and false for duplicates. SET NX keeps the check-and-set
// atomic across competing consumers.
func (s *IdempotencyStore) MarkAsProcessed(ctx context.Context, event KudoEvent) (bool, error) {
	key := s.buildKey(event.MessageID)

	metadata := Metadata{
		SentAt:    time.Now(),
		Recipient: event.RecipientEmail,
		EventType: event.EventType,
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	success, err := s.redis.SetNX(ctx, key, metadataJSON, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processed: %w", err)
	}

	if success {
		s.logger.Info("Marked notification as processed",
			"messageID", event.MessageID,
			"recipient", event.RecipientEmail,
			"type", event.EventType)
	} else {
		s.logger.Warn("Notification already processed (duplicate detected)",
			"messageID", event.MessageID,
			"recipient", event.RecipientEmail,
			"type", event.EventType)
	}

	return success, nil
}

// Count reports the number of active deduplication records. Redis TTL
// handles expiry, this exists for monitoring.
func (s *IdempotencyStore) Count(ctx context.Context) (int64, error) {
	pattern := s.keyPrefix() + "*"

	var cursor uint64
	var count int64

	for {
		var keys []string
		var err error

		keys, cursor, err = s.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return count, fmt.Errorf("failed to scan keys: %w", err)
		}

		count += int64(len(keys))

		if cursor == 0 {
			break
		}
	}

	s.logger.Info("Idempotency store stats",
		"active_records", count,
		"ttl", s.ttl)

	return count, nil
}
