// Package worklock provides a Redis-backed per-role lease so that at most
// one instance of a worker role writes to the store at a time. The lease
// doubles as a heartbeat: it carries a TTL and is refreshed every worker
// cycle, so the supervisor can peek it as a liveness signal.
package worklock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/redis"
)

var (
	// ErrHeld is returned by Acquire when another instance owns the role.
	ErrHeld = errors.New("role lease already held")
	// ErrLost is returned by Refresh when the lease expired or was taken
	// over since the last refresh.
	ErrLost = errors.New("role lease lost")
)

// Lease is an acquired role lease.
type Lease struct {
	client *redis.Client
	role   string
	id     string
	ttl    time.Duration
}

func leaseKey(role string) string {
	return fmt.Sprintf(common.RoleLeaseKeyFormat, role)
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}

// Acquire takes the lease for role, failing with ErrHeld when another
// instance owns it.
func Acquire(ctx context.Context, client *redis.Client, role string, ttl time.Duration) (*Lease, error) {
	id := instanceID()
	ok, err := client.SetNX(ctx, leaseKey(role), id, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease for %s: %w", role, err)
	}
	if !ok {
		holder, _ := client.Get(ctx, leaseKey(role)).Result()
		return nil, fmt.Errorf("%w: role %s held by %s", ErrHeld, role, holder)
	}
	return &Lease{client: client, role: role, id: id, ttl: ttl}, nil
}

// Refresh re-asserts ownership and extends the TTL. Callers invoke it once
// per work cycle; ErrLost means another instance took over and this one
// must stop writing.
func (l *Lease) Refresh(ctx context.Context) error {
	holder, err := l.client.Get(ctx, leaseKey(l.role)).Result()
	if errors.Is(err, goredis.Nil) {
		// Expired; reclaim rather than stop, we are still the writer.
		ok, setErr := l.client.SetNX(ctx, leaseKey(l.role), l.id, l.ttl).Result()
		if setErr != nil {
			return fmt.Errorf("failed to reclaim lease for %s: %w", l.role, setErr)
		}
		if !ok {
			return fmt.Errorf("%w: role %s", ErrLost, l.role)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check lease for %s: %w", l.role, err)
	}
	if holder != l.id {
		return fmt.Errorf("%w: role %s now held by %s", ErrLost, l.role, holder)
	}
	if err := l.client.Expire(ctx, leaseKey(l.role), l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to extend lease for %s: %w", l.role, err)
	}
	return nil
}

// Release gives the lease up if this instance still owns it.
func (l *Lease) Release(ctx context.Context) error {
	holder, err := l.client.Get(ctx, leaseKey(l.role)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check lease for %s: %w", l.role, err)
	}
	if holder != l.id {
		return nil
	}
	return l.client.Del(ctx, leaseKey(l.role)).Err()
}

// Holder reports the instance currently holding the role's lease, or ""
// when nobody does. The supervisor uses this as a secondary liveness
// signal next to the process-table probe.
func Holder(ctx context.Context, client *redis.Client, role string) (string, error) {
	holder, err := client.Get(ctx, leaseKey(role)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read lease for %s: %w", role, err)
	}
	return holder, nil
}
