package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aerosafety/labelboard/internal/logging"
)

// LockService is the time-boxed advisory lock used to discourage concurrent
// editing of the same task. Single holder; reacquisition requires the same
// user; admins may force-release. The lock is advisory: domain writes do not
// depend on holding it.
type LockService struct {
	client *redis.Client
	ttl    time.Duration
}

const lockKeyPrefix = "labelboard:lock:"

// NewLockService creates a lock service; ttl bounds how long a holder can sit
// on a task without reacquiring.
func NewLockService(client *redis.Client, ttl time.Duration) *LockService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LockService{client: client, ttl: ttl}
}

// Acquire takes the task lock for userID. Returns (true, userID) on success
// or same-user reacquisition (which refreshes the ttl), (false, holder) when
// another user holds it.
func (s *LockService) Acquire(ctx context.Context, task, userID string) (bool, string, error) {
	key := lockKeyPrefix + task

	ok, err := s.client.SetNX(ctx, key, userID, s.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	if ok {
		return true, userID, nil
	}

	holder, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Holder expired between SetNX and Get; try once more.
			ok, err := s.client.SetNX(ctx, key, userID, s.ttl).Result()
			if err != nil {
				return false, "", fmt.Errorf("failed to acquire lock: %w", err)
			}
			return ok, userID, nil
		}
		return false, "", fmt.Errorf("failed to read lock holder: %w", err)
	}

	if holder == userID {
		// Same-user reacquisition refreshes the time box.
		if err := s.client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
			return false, "", fmt.Errorf("failed to refresh lock: %w", err)
		}
		return true, userID, nil
	}

	return false, holder, nil
}

// Release drops the lock when userID is the holder; reports not-owner
// otherwise. Releasing an unheld lock succeeds.
func (s *LockService) Release(ctx context.Context, task, userID string) (bool, error) {
	key := lockKeyPrefix + task

	holder, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read lock holder: %w", err)
	}
	if holder != userID {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to release lock: %w", err)
	}
	return true, nil
}

// Status reports whether the task is locked and by whom.
func (s *LockService) Status(ctx context.Context, task string) (bool, string, error) {
	holder, err := s.client.Get(ctx, lockKeyPrefix+task).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("failed to read lock holder: %w", err)
	}
	return true, holder, nil
}

// ForceRelease unconditionally clears the lock; reserved for admins.
func (s *LockService) ForceRelease(ctx context.Context, task string) error {
	if err := s.client.Del(ctx, lockKeyPrefix+task).Err(); err != nil {
		return fmt.Errorf("failed to force-release lock: %w", err)
	}
	logging.Warn("Task lock force-released", "task", task)
	return nil
}
