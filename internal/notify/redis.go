package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes events onto per-user pub/sub channels. Delivery is
// whatever subscribers happen to be listening; nothing is stored.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr, password string) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: rdb}, nil
}

// ChannelFor returns the pub/sub channel a user's clients subscribe to.
func ChannelFor(userID string) string {
	return fmt.Sprintf("notifications:user:%s", userID)
}

func (p *RedisPublisher) Publish(ctx context.Context, recipientID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ChannelFor(recipientID), payload).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
