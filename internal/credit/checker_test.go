package credit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

func newTestChecker(t *testing.T) (*Checker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewChecker(NewApprovalCache(rdb)), mr
}

func TestCheckerDowngradesAfterConfirmation(t *testing.T) {
	ctx := context.Background()
	checker, _ := newTestChecker(t)

	in := EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG}

	d, err := checker.Check(ctx, 1, 42, in)
	require.NoError(t, err)
	require.Equal(t, AllowWithConfirmation, d.Outcome)

	require.NoError(t, checker.Confirm(ctx, 1, 42))

	d, err = checker.Check(ctx, 1, 42, in)
	require.NoError(t, err)
	require.Equal(t, Allow, d.Outcome)
}

func TestCheckerConfirmationIsScoped(t *testing.T) {
	ctx := context.Background()
	checker, _ := newTestChecker(t)

	in := EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG}
	require.NoError(t, checker.Confirm(ctx, 1, 42))

	// Another user is still prompted.
	d, err := checker.Check(ctx, 2, 42, in)
	require.NoError(t, err)
	require.Equal(t, AllowWithConfirmation, d.Outcome)

	// Another contact is still prompted.
	d, err = checker.Check(ctx, 1, 43, in)
	require.NoError(t, err)
	require.Equal(t, AllowWithConfirmation, d.Outcome)
}

func TestCheckerConfirmationExpires(t *testing.T) {
	ctx := context.Background()
	checker, mr := newTestChecker(t)

	in := EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG}
	require.NoError(t, checker.Confirm(ctx, 1, 42))

	mr.FastForward(ApprovalTTL + time.Second)

	d, err := checker.Check(ctx, 1, 42, in)
	require.NoError(t, err)
	require.Equal(t, AllowWithConfirmation, d.Outcome)
}

func TestCheckerReset(t *testing.T) {
	ctx := context.Background()
	checker, _ := newTestChecker(t)

	in := EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG}

	require.NoError(t, checker.Confirm(ctx, 1, 42))
	require.NoError(t, checker.Reset(ctx, 1, 42))

	d, err := checker.Check(ctx, 1, 42, in)
	require.NoError(t, err)
	require.Equal(t, AllowWithConfirmation, d.Outcome)
}

func TestCheckerResetAll(t *testing.T) {
	ctx := context.Background()
	checker, _ := newTestChecker(t)

	in := EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG}

	require.NoError(t, checker.Confirm(ctx, 1, 42))
	require.NoError(t, checker.Confirm(ctx, 1, 43))
	require.NoError(t, checker.ResetAll(ctx, 1))

	for _, contactID := range []int64{42, 43} {
		d, err := checker.Check(ctx, 1, contactID, in)
		require.NoError(t, err)
		require.Equal(t, AllowWithConfirmation, d.Outcome)
	}
}

func TestCheckerDenyNeverConsultsCache(t *testing.T) {
	ctx := context.Background()
	checker, _ := newTestChecker(t)

	// Even with a recorded confirmation, a non-manager stays denied.
	require.NoError(t, checker.Confirm(ctx, 1, 42))
	d, err := checker.Check(ctx, 1, 42, EvalInput{
		SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RoleEmploye,
	})
	require.NoError(t, err)
	require.Equal(t, Deny, d.Outcome)
}
