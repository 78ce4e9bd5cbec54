package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr         string
	Password     string
	UsersHashKey string
}

// ValkeyClient caches authenticated credentials and rendered seat maps.
// Both caches are optional: callers fall back to Postgres when the
// client is nil or a lookup misses.
type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: cfg.UsersHashKey,
	}, nil
}

func authCacheKey(email, passwordHash string) string {
	return base64.StdEncoding.EncodeToString([]byte(email + ":" + passwordHash))
}

// GetUserByAuth looks up a cached credential pair. The hash field value
// is "<userID>:<0|1>" where the second part marks staff accounts.
func (v *ValkeyClient) GetUserByAuth(ctx context.Context, email, passwordHash string) (int64, bool, error) {
	val, err := v.client.HGet(ctx, v.usersHashKey, authCacheKey(email, passwordHash)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, fmt.Errorf("user not found in cache")
		}
		return 0, false, fmt.Errorf("cache lookup error: %w", err)
	}

	idPart, staffPart, ok := strings.Cut(val, ":")
	if !ok {
		return 0, false, fmt.Errorf("malformed auth cache entry")
	}
	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, staffPart == "1", nil
}

// SetUserAuth records a verified credential pair after a DB hit.
func (v *ValkeyClient) SetUserAuth(ctx context.Context, email, passwordHash string, userID int64, isStaff bool) error {
	staff := "0"
	if isStaff {
		staff = "1"
	}
	val := strconv.FormatInt(userID, 10) + ":" + staff
	return v.client.HSet(ctx, v.usersHashKey, authCacheKey(email, passwordHash), val).Err()
}

func seatsKey(showID string) string {
	return "seats:" + showID
}

// GetSeatsRaw returns the cached seat-map JSON for a show, or an error
// on miss. The payload is stored pre-serialized so hits skip marshaling.
func (v *ValkeyClient) GetSeatsRaw(ctx context.Context, showID string) ([]byte, error) {
	raw, err := v.client.Get(ctx, seatsKey(showID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("seats not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

// SetSeats stores a rendered seat map with a short TTL. The TTL bounds
// how stale a seat map can get when an invalidation is lost.
func (v *ValkeyClient) SetSeats(ctx context.Context, showID string, payload []byte, ttl time.Duration) error {
	return v.client.Set(ctx, seatsKey(showID), payload, ttl).Err()
}

// InvalidateSeats drops the cached seat map after a successful booking.
func (v *ValkeyClient) InvalidateSeats(ctx context.Context, showID string) error {
	return v.client.Del(ctx, seatsKey(showID)).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
