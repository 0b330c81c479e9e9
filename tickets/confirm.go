package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infinitybotlist/eureka/crypto"
	"github.com/redis/go-redis/v9"
)

// ConfirmKind names a destructive action awaiting its confirmation step.
type ConfirmKind string

const (
	ConfirmClose  ConfirmKind = "close"
	ConfirmDelete ConfirmKind = "delete"
)

const (
	// CloseConfirmWindow is how long a close confirmation stays valid.
	CloseConfirmWindow = 60 * time.Second

	// DeleteConfirmWindow is how long a delete confirmation stays valid.
	// After it lapses the confirm button is inert, not an error.
	DeleteConfirmWindow = 30 * time.Second
)

// Store is the expiring key-value backend for create cooldowns and pending
// confirmation tokens. Production uses redis; tests swap in an in-memory
// store with a controllable clock.
type Store interface {
	SetEx(ctx context.Context, key string, value string, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
}

// RedisStore backs Store with redis TTL keys.
type RedisStore struct {
	Redis *redis.Client
}

func (s *RedisStore) SetEx(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.Redis.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) GetDel(ctx context.Context, key string) (string, bool, error) {
	value, err := s.Redis.GetDel(ctx, key).Result()

	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, key).Err()
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.Redis.TTL(ctx, key).Result()

	if err != nil {
		return 0, false, err
	}

	// redis reports -2 for a missing key and -1 for one with no expiry
	if ttl == -2 || ttl == -1 {
		return 0, false, nil
	}

	return ttl, true, nil
}

// Confirmations is the pending-confirmation store for the two-phase
// confirm/cancel controls: one short-lived token per channel and action
// kind, expiring with the window.
type Confirmations struct {
	Store Store
}

func (c *Confirmations) key(kind ConfirmKind, channelID string) string {
	return "ticket_confirm:" + string(kind) + ":" + channelID
}

// Arm opens a confirmation window for the channel and action kind.
// Re-arming resets the window, so a double-click on the initiating control
// stays harmless.
func (c *Confirmations) Arm(ctx context.Context, kind ConfirmKind, channelID string, window time.Duration) error {
	err := c.Store.SetEx(ctx, c.key(kind, channelID), crypto.RandString(32), window)

	if err != nil {
		return fmt.Errorf("error arming %s confirmation: %w", kind, err)
	}

	return nil
}

// Consume takes the pending confirmation if it is still live. A missing or
// expired token reports false with no error: the window simply lapsed.
func (c *Confirmations) Consume(ctx context.Context, kind ConfirmKind, channelID string) (bool, error) {
	_, live, err := c.Store.GetDel(ctx, c.key(kind, channelID))

	if err != nil {
		return false, fmt.Errorf("error consuming %s confirmation: %w", kind, err)
	}

	return live, nil
}

// Cancel discards a pending confirmation, if any.
func (c *Confirmations) Cancel(ctx context.Context, kind ConfirmKind, channelID string) error {
	err := c.Store.Del(ctx, c.key(kind, channelID))

	if err != nil {
		return fmt.Errorf("error cancelling %s confirmation: %w", kind, err)
	}

	return nil
}

// CreateCooldown reports the remaining per-user create-ticket cooldown. A
// user off cooldown gets one started.
func (m *Manager) CreateCooldown(ctx context.Context, userID string) (time.Duration, bool, error) {
	cooldownKey := "ticket_cooldown:" + userID

	cooldown, active, err := m.Store.TTL(ctx, cooldownKey)

	if err != nil {
		return 0, false, fmt.Errorf("error checking cooldown: %w", err)
	}

	if active {
		return cooldown, true, nil
	}

	err = m.Store.SetEx(ctx, cooldownKey, "0", 10*time.Second)

	if err != nil {
		return 0, false, fmt.Errorf("error setting cooldown: %w", err)
	}

	return 0, false, nil
}
