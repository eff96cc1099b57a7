package credit

import (
	"context"
)

// Checker combines the pure evaluation with the approval cache, so a
// manager who already confirmed an overage for a contact is not prompted
// again within the approval window.
type Checker struct {
	approvals *ApprovalCache
}

// NewChecker constructs a Checker.
func NewChecker(approvals *ApprovalCache) *Checker {
	return &Checker{approvals: approvals}
}

// Check evaluates the credit rules for the acting user and contact. An
// AllowWithConfirmation outcome downgrades to Allow when a fresh
// confirmation is cached. The evaluation runs both at contact selection
// (advisory) and at submission (authoritative); callers pass the total
// they have at that moment.
func (c *Checker) Check(ctx context.Context, userID, contactID int64, in EvalInput) (Decision, error) {
	d := Evaluate(in)
	if d.Outcome != AllowWithConfirmation || c.approvals == nil {
		return d, nil
	}
	ok, err := c.approvals.Valid(ctx, userID, contactID)
	if err != nil {
		return d, err
	}
	if ok {
		return Decision{Outcome: Allow}, nil
	}
	return d, nil
}

// Confirm records the manager's acceptance of the reported overage.
func (c *Checker) Confirm(ctx context.Context, userID, contactID int64) error {
	return c.approvals.Record(ctx, userID, contactID)
}

// Reset drops the cached confirmation when the form switches contact.
func (c *Checker) Reset(ctx context.Context, userID, contactID int64) error {
	return c.approvals.Clear(ctx, userID, contactID)
}

// ResetAll drops all confirmations for the user when the form closes.
func (c *Checker) ResetAll(ctx context.Context, userID int64) error {
	return c.approvals.ClearAll(ctx, userID)
}
