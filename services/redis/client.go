package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis used for the event bus.
type RedisClient interface {
	Ping(ctx context.Context) error
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return r.client.Publish(ctx, channel, message).Err()
}

func (r *redisClient) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return r.client.Subscribe(ctx, channels...)
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

func NewRedisClient(addr string, password string, db int) RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisClient{client: rdb}
}
