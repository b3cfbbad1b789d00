package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var (
	errLockNotConfigured = errors.New("lock_client_not_configured")
	errLockKeyEmpty      = errors.New("lock_key_empty")
	errLockTTLInvalid    = errors.New("lock_ttl_invalid")
)

// guardedRelease deletes the key only while it still holds our token, so a
// lock that expired and was re-acquired elsewhere is never released by us.
const guardedRelease = `
local held = redis.call("GET", KEYS[1])
if held == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker hands out best-effort distributed locks keyed by name. Expiry is
// the only recovery path; there is no fencing beyond the release token.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{client: client, release: redis.NewScript(guardedRelease)}
}

// TryLock attempts to take the lock without blocking. On success it returns
// the token Release needs; acquired=false with a nil error means another
// holder currently owns the key.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error) {
	switch {
	case l == nil || l.client == nil:
		return "", false, errLockNotConfigured
	case key == "":
		return "", false, errLockKeyEmpty
	case ttl <= 0:
		return "", false, errLockTTLInvalid
	}

	token = uuid.NewString()
	acquired, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, acquired, nil
}

// Release drops the lock if the token still matches. Releasing a lock that
// already expired is a no-op, not an error.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil || key == "" || token == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{key}, token).Err()
}
