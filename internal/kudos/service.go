package kudos

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"kudos/internal/notify"
)

const (
	feedCacheTTL   = 2 * time.Minute
	recentCacheTTL = 2 * time.Minute
	previewMaxLen  = 120
)

// EventPublisher publishes notification events for sent kudos
type EventPublisher interface {
	PublishEvent(topic string, event interface{}) error
}

// Service handles business logic for kudos with caching and
// notification publishing
type Service struct {
	repo      *Repository
	cache     *redis.Client
	publisher EventPublisher
	topic     string
}

// NewService creates a new kudos service with Redis caching. The
// publisher may be nil, in which case notification events are skipped.
func NewService(repo *Repository, redisAddr, redisPassword string, redisDB int, publisher EventPublisher, topic string) *Service {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v. Caching disabled.", err)
		rdb = nil
	} else {
		log.Println("Redis cache connected for kudos service")
	}

	return &Service{
		repo:      repo,
		cache:     rdb,
		publisher: publisher,
		topic:     topic,
	}
}

// SendKudo creates a kudo, invalidates feed caches and publishes a
// notification event for the recipient
func (s *Service) SendKudo(ctx context.Context, authorID string, req CreateKudoRequest) (*Kudo, error) {
	applyDefaultStyle(&req.Style)

	kudo, err := s.repo.Create(ctx, authorID, req)
	if err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx)
	s.publishKudoEvent(ctx, kudo)

	return kudo, nil
}

// Feed retrieves the kudo feed for the given filter with caching
func (s *Service) Feed(ctx context.Context, filter FeedFilter) ([]Kudo, error) {
	cacheKey := feedCacheKey(filter)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var kudos []Kudo
			if err := json.Unmarshal([]byte(cached), &kudos); err == nil {
				log.Printf("Cache hit for kudos feed %q", cacheKey)
				return kudos, nil
			}
		}
	}

	kudos, err := s.repo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, _ := json.Marshal(kudos)
		s.cache.Set(ctx, cacheKey, data, feedCacheTTL)
	}

	return kudos, nil
}

// Recent retrieves the newest kudos with caching
func (s *Service) Recent(ctx context.Context) ([]Kudo, error) {
	const cacheKey = "kudos:recent"

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var kudos []Kudo
			if err := json.Unmarshal([]byte(cached), &kudos); err == nil {
				log.Printf("Cache hit for recent kudos")
				return kudos, nil
			}
		}
	}

	kudos, err := s.repo.Recent(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, _ := json.Marshal(kudos)
		s.cache.Set(ctx, cacheKey, data, recentCacheTTL)
	}

	return kudos, nil
}

func (s *Service) publishKudoEvent(ctx context.Context, kudo *Kudo) {
	if s.publisher == nil {
		return
	}

	email, firstName, err := s.repo.RecipientContact(ctx, kudo.RecipientID)
	if err != nil {
		log.Printf("Failed to resolve recipient %s for notification: %v", kudo.RecipientID, err)
		return
	}

	event := notify.KudoEvent{
		MessageID:      uuid.New().String(),
		EventType:      notify.EventTypeKudoReceived,
		Timestamp:      time.Now().UTC(),
		RecipientEmail: email,
		RecipientName:  firstName,
		SenderName:     strings.TrimSpace(kudo.Author.FirstName + " " + kudo.Author.LastName),
		Preview:        preview(kudo.Message),
		Emoji:          kudo.Style.Emoji,
	}

	// Delivery is best-effort: a broker outage must not fail the send
	if err := s.publisher.PublishEvent(s.topic, event); err != nil {
		log.Printf("Failed to publish kudo event %s: %v", event.MessageID, err)
	}
}

func applyDefaultStyle(style *Style) {
	if style.BackgroundColor == "" {
		style.BackgroundColor = defaultStyle.BackgroundColor
	}
	if style.TextColor == "" {
		style.TextColor = defaultStyle.TextColor
	}
	if style.Emoji == "" {
		style.Emoji = defaultStyle.Emoji
	}
}

func preview(message string) string {
	if len(message) <= previewMaxLen {
		return message
	}
	return message[:previewMaxLen] + "..."
}

func feedCacheKey(filter FeedFilter) string {
	return fmt.Sprintf("kudos:feed:sort:%s:search:%s", filter.Sort, filter.Search)
}

// Cache invalidation helpers
func (s *Service) invalidateFeedCache(ctx context.Context) {
	if s.cache != nil {
		s.deleteByPattern(ctx, "kudos:feed:*")
		s.cache.Del(ctx, "kudos:recent")
	}
}

func (s *Service) deleteByPattern(ctx context.Context, pattern string) {
	iter := s.cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Error scanning cache keys: %v", err)
	}
}
