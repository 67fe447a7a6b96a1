package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrSessionNotFound = errors.New("session not found")

type Client struct {
	rdb *redis.Client
}

// SessionData is the payload behind a bearer token issued at login.
type SessionData struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromRedis wraps an existing go-redis client, used by tests.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Session management
func (c *Client) SetSession(token string, data *SessionData, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+token, jsonData, ttl).Err()
}

func (c *Client) GetSession(token string) (*SessionData, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(token string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+token).Err()
}

// Job locking. The batch aggregator must not run concurrently with itself;
// AcquireLock is a SETNX advisory lock with a TTL backstop in case a job dies
// without releasing.
func (c *Client) AcquireLock(name string, ttl time.Duration) (bool, error) {
	ctx := context.Background()
	ok, err := c.rdb.SetNX(ctx, "lock:"+name, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return ok, nil
}

func (c *Client) ReleaseLock(name string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "lock:"+name).Err()
}

// Job run markers, used for reporting when a batch job last completed.
func (c *Client) SetLastRun(job string, at time.Time) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "lastrun:"+job, at.Format(time.RFC3339), 0).Err()
}

func (c *Client) GetLastRun(job string) (time.Time, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "lastrun:"+job).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last run for %s: %w", job, err)
	}
	return time.Parse(time.RFC3339, val)
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
