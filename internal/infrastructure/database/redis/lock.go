package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/molgraph/pkg/errors"
)

var ErrLockNotHeld = errors.New(errors.ErrCodeConflict, "lock not held by this owner")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Claim is an expiring, owner-checked lock on one name. The worker claims each
// request id before computing so a redelivered message is processed once.
type Claim struct {
	client *Client
	key    string
	owner  string
	ttl    time.Duration
}

// NewClaim prepares a claim on name; nothing is sent to Redis until TryAcquire.
func NewClaim(client *Client, name string, ttl time.Duration) *Claim {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Claim{
		client: client,
		key:    "molgraph:claim:" + name,
		owner:  uuid.New().String(),
		ttl:    ttl,
	}
}

// TryAcquire reports whether this caller now owns the claim.
func (c *Claim) TryAcquire(ctx context.Context) (bool, error) {
	rdb, err := c.client.Raw()
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, c.key, c.owner, c.ttl).Result()
}

// Release deletes the claim if this caller still owns it.
func (c *Claim) Release(ctx context.Context) error {
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	n, err := releaseScript.Run(ctx, rdb, []string{c.key}, c.owner).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

//Personal.AI order the ending
