package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// releaseScript deletes a key only while it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions tunes the distributed locker.
type RedisOptions struct {
	Prefix string        // key prefix, "lock:" when empty
	TTL    time.Duration // lock expiry
	Retry  time.Duration // pause between acquisition attempts
	Wait   time.Duration // give up after this long; 0 waits until ctx is done
}

// Redis is a cross-process locker built on SET NX PX.
type Redis struct {
	client redis.Cmdable
	opts   RedisOptions
}

// NewRedis creates a Redis-backed locker.
func NewRedis(client redis.Cmdable, opts RedisOptions) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "lock:"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 50 * time.Millisecond
	}
	return &Redis{client: client, opts: opts}
}

// Lock acquires every key under one random token. If a key stays taken past
// the wait budget it returns an error wrapping domain.ErrConflict and
// releases whatever it already held.
func (r *Redis) Lock(ctx context.Context, keys []string) (func(ctx context.Context) error, error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()

	var deadline time.Time
	if r.opts.Wait > 0 {
		deadline = time.Now().Add(r.opts.Wait)
	}

	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := r.acquire(ctx, r.opts.Prefix+k, token, deadline); err != nil {
			_ = r.release(context.WithoutCancel(ctx), held, token)
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		held = append(held, r.opts.Prefix+k)
	}

	return func(ctx context.Context) error {
		return r.release(ctx, held, token)
	}, nil
}

func (r *Redis) acquire(ctx context.Context, key, token string, deadline time.Time) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		ok, err := r.client.SetNX(ctx, key, token, r.opts.TTL).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return domain.ErrConflict
		}
		timer.Reset(r.opts.Retry)
	}
}

func (r *Redis) release(ctx context.Context, keys []string, token string) error {
	var errs []error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, r.client, []string{keys[i]}, token).Err(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", keys[i], err))
		}
	}
	return errors.Join(errs...)
}
