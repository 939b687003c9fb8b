// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eatup-app/eatup/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// SpinQueueName is the Redis list that carries spin records toward the
// analytics consumer.
const SpinQueueName = "eatup_spins"

// presenceTTL bounds how long a cached presence entry is trusted.
const presenceTTL = 5 * time.Minute

// SpinRecord is the minimal spin event shape pushed onto the queue.
type SpinRecord struct {
	SpinID       uuid.UUID         `json:"spin_id"`
	UserID       uuid.UUID         `json:"user_id"`
	PriceRange   models.PriceRange `json:"price_range"`
	OfferID      string            `json:"offer_id"`
	RestaurantID string            `json:"restaurant_id"`
	Timestamp    int64             `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client.
func ConnectRedis(addr string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// SpinQueue publishes spin records onto the Redis list. It satisfies the spin
// engine's Recorder interface.
type SpinQueue struct{}

// RecordSpin serializes the spin and pushes it onto the queue.
func (SpinQueue) RecordSpin(ctx context.Context, s models.Spin) error {
	if Rdb == nil {
		return fmt.Errorf("redis not connected")
	}
	data, err := json.Marshal(SpinRecord{
		SpinID:       s.ID,
		UserID:       s.UserID,
		PriceRange:   s.PriceRange,
		OfferID:      s.OfferResult.ID,
		RestaurantID: s.OfferResult.RestaurantID,
		Timestamp:    s.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal spin record: %w", err)
	}
	if err := Rdb.RPush(ctx, SpinQueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", SpinQueueName, err)
	}
	return nil
}

// SetPresence caches the user's presence status with a TTL, so friend lists
// can show liveness without a directory round trip.
func SetPresence(ctx context.Context, userID uuid.UUID, status models.OnlineStatus) error {
	if Rdb == nil {
		return fmt.Errorf("redis not connected")
	}
	key := fmt.Sprintf("presence:%s", userID)
	return Rdb.Set(ctx, key, string(status), presenceTTL).Err()
}

// GetPresence reads the cached presence status. An expired or missing entry
// reads as offline.
func GetPresence(ctx context.Context, userID uuid.UUID) (models.OnlineStatus, error) {
	if Rdb == nil {
		return models.StatusOffline, fmt.Errorf("redis not connected")
	}
	key := fmt.Sprintf("presence:%s", userID)
	val, err := Rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.StatusOffline, nil
	}
	if err != nil {
		return models.StatusOffline, err
	}
	return models.OnlineStatus(val), nil
}
