package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"colorcrash/internal/domain"
)

// RedisPublisher broadcasts round events on a Redis channel so frontends can
// push phase changes instead of polling.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr, channel string, log *zap.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("redis connected", zap.String("addr", addr), zap.String("channel", channel))
	return &RedisPublisher{client: client, channel: channel, log: log}, nil
}

// PublishRoundEvent sends the event as JSON. Implements domain.RoundPublisher.
func (p *RedisPublisher) PublishRoundEvent(ctx context.Context, ev domain.RoundEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode round event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish round event: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
