package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/community-resources/backend/pkg/logger"
)

// Client backs two best-effort concerns: usage counters and the
// geocode cache. The service stays fully functional without it.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) IncrementCounter(ctx context.Context, name string) error {
	return c.client.Incr(ctx, fmt.Sprintf("counter:%s", name)).Err()
}

func (c *Client) GetCounter(ctx context.Context, name string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("counter:%s", name)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// SetGeocode caches a resolved address. Addresses rarely move, so a
// long TTL is safe.
func (c *Client) SetGeocode(ctx context.Context, addressHash string, result interface{}, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode result: %w", err)
	}

	if err := c.client.Set(ctx, fmt.Sprintf("geocode:%s", addressHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set geocode cache: %w", err)
	}

	logger.Debug("Geocode cached", zap.String("address_hash", addressHash))
	return nil
}

func (c *Client) GetGeocode(ctx context.Context, addressHash string, result interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("geocode:%s", addressHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get geocode cache: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal geocode result: %w", err)
	}

	logger.Debug("Geocode cache hit", zap.String("address_hash", addressHash))
	return true, nil
}
