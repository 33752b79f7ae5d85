package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before the account is blocked
	AttemptWindow time.Duration // how long failed attempts are remembered
	BlockDuration time.Duration // how long a block lasts
}

// DefaultLoginTrackerConfig returns 5 attempts in 15 minutes, blocked for 15 minutes
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed sign-ins per email and blocks the email once
// MaxAttempts is reached. State lives in Redis when a client is given and
// in process memory otherwise.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger

	mu       sync.Mutex
	failures map[string]attemptWindow
	blocked  map[string]time.Time
	now      func() time.Time
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

var incrWithTTL = goredis.NewScript(incrWithTTLScript)

// NewLoginTracker creates a login tracker. client may be nil.
func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client) *LoginTracker {
	defaults := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = defaults.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = defaults.BlockDuration
	}
	return &LoginTracker{
		config:   config,
		client:   client,
		logger:   DefaultLogger(),
		failures: make(map[string]attemptWindow),
		blocked:  make(map[string]time.Time),
		now:      time.Now,
	}
}

// IsBlocked reports whether sign-in for email is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.client != nil {
		exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+email).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check user block: %w", err)
		}
		return exists > 0, nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	until, ok := lt.blocked[email]
	if !ok {
		return false, nil
	}
	if !lt.now().Before(until) {
		delete(lt.blocked, email)
		return false, nil
	}
	return true, nil
}

// RecordFailedAttempt counts a failed sign-in and blocks the email once the
// limit is reached. Returns whether a block was created and the attempt count.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, requestID string) (bool, int, error) {
	var count int
	if lt.client != nil {
		n, err := incrWithTTL.Run(ctx, lt.client,
			[]string{failLoginUserPrefix + email},
			int(lt.config.AttemptWindow.Seconds()),
		).Int()
		if err != nil {
			return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
		}
		count = n
	} else {
		count = lt.incrementLocal(email)
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, email); err != nil {
		return false, count, err
	}

	lt.logger.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		RequestID:    requestID,
		Details: map[string]interface{}{
			"attempts":       count,
			"block_duration": lt.config.BlockDuration.String(),
		},
	})
	return true, count, nil
}

// ClearAttempts forgets the failed attempts for email after a successful sign-in
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	if lt.client != nil {
		return lt.client.Del(ctx, failLoginUserPrefix+email).Err()
	}
	lt.mu.Lock()
	delete(lt.failures, email)
	lt.mu.Unlock()
	return nil
}

func (lt *LoginTracker) incrementLocal(email string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	w, ok := lt.failures[email]
	if !ok || !now.Before(w.resetAt) {
		w = attemptWindow{resetAt: now.Add(lt.config.AttemptWindow)}
	}
	w.count++
	lt.failures[email] = w
	return w.count
}

func (lt *LoginTracker) createBlock(ctx context.Context, email string) error {
	if lt.client != nil {
		pipe := lt.client.TxPipeline()
		pipe.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration)
		pipe.Del(ctx, failLoginUserPrefix+email)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}
		return nil
	}

	lt.mu.Lock()
	lt.blocked[email] = lt.now().Add(lt.config.BlockDuration)
	delete(lt.failures, email)
	lt.mu.Unlock()
	return nil
}
