package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ApprovalTTL is how long a manager's overage confirmation for a contact
// stays valid, suppressing repeated prompts for the same contact.
const ApprovalTTL = 30 * time.Minute

// ApprovalCache remembers manager confirmations per user+contact pair.
type ApprovalCache struct {
	rdb *redis.Client
}

// NewApprovalCache constructs an ApprovalCache on the shared Redis client.
func NewApprovalCache(rdb *redis.Client) *ApprovalCache {
	return &ApprovalCache{rdb: rdb}
}

func approvalKey(userID, contactID int64) string {
	return fmt.Sprintf("credit:approval:%d:%d", userID, contactID)
}

// Record stores a confirmation for the given contact.
func (c *ApprovalCache) Record(ctx context.Context, userID, contactID int64) error {
	return c.rdb.Set(ctx, approvalKey(userID, contactID), time.Now().Unix(), ApprovalTTL).Err()
}

// Valid reports whether a still-fresh confirmation exists for the contact.
func (c *ApprovalCache) Valid(ctx context.Context, userID, contactID int64) (bool, error) {
	err := c.rdb.Get(ctx, approvalKey(userID, contactID)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear drops the confirmation for one contact, used when the form selects
// a different contact.
func (c *ApprovalCache) Clear(ctx context.Context, userID, contactID int64) error {
	return c.rdb.Del(ctx, approvalKey(userID, contactID)).Err()
}

// ClearAll drops every confirmation held by the user, used when the form
// is closed.
func (c *ApprovalCache) ClearAll(ctx context.Context, userID int64) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, fmt.Sprintf("credit:approval:%d:*", userID), 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
