package stake

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

func newTestCtrler(t *testing.T, unbonding ctrlertypes.Duration) *StakeCtrler {
	ctrler, xerr := NewStakeCtrler(t.TempDir(), unbonding, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ctrler.Close() })
	return ctrler
}

func commit(t *testing.T, ctrler *StakeCtrler) {
	_, _, xerr := ctrler.Commit()
	require.NoError(t, xerr)
}

func bctx(height int64) *ctrlertypes.BlockContext {
	return ctrlertypes.NewBlockContext(height, 0)
}

func TestStakeSnapshotHistory(t *testing.T) {
	ctrler := newTestCtrler(t, ctrlertypes.Duration{})
	alice := types.RandAddress()

	require.NoError(t, ctrler.Stake(bctx(10), alice, uint256.NewInt(50)))
	commit(t, ctrler)
	require.NoError(t, ctrler.Stake(bctx(20), alice, uint256.NewInt(30)))
	commit(t, ctrler)

	// before any snapshot
	p, xerr := ctrler.StakedPowerAt(alice, 9)
	require.NoError(t, xerr)
	require.True(t, p.IsZero())

	// a snapshot answers from its height until the next one
	for _, h := range []int64{10, 15, 19} {
		p, xerr = ctrler.StakedPowerAt(alice, h)
		require.NoError(t, xerr)
		require.Equal(t, uint64(50), p.Uint64(), "height %d", h)
	}
	p, xerr = ctrler.StakedPowerAt(alice, 20)
	require.NoError(t, xerr)
	require.Equal(t, uint64(80), p.Uint64())
	p, xerr = ctrler.StakedPowerAt(alice, 1<<30)
	require.NoError(t, xerr)
	require.Equal(t, uint64(80), p.Uint64())

	tot, xerr := ctrler.TotalStakedAt(15)
	require.NoError(t, xerr)
	require.Equal(t, uint64(50), tot.Uint64())
	tot, xerr = ctrler.TotalStakedAt(20)
	require.NoError(t, xerr)
	require.Equal(t, uint64(80), tot.Uint64())
}

func TestUnstakeImmediatePayout(t *testing.T) {
	ctrler := newTestCtrler(t, ctrlertypes.Duration{})
	alice := types.RandAddress()

	require.NoError(t, ctrler.Stake(bctx(1), alice, uint256.NewInt(100)))
	commit(t, ctrler)

	msgs, xerr := ctrler.Unstake(bctx(2), alice, uint256.NewInt(40))
	require.NoError(t, xerr)
	require.Len(t, msgs, 1)
	require.Equal(t, uint64(40), msgs[0].Amount.Uint64())
	commit(t, ctrler)

	p, _ := ctrler.StakedPowerAt(alice, 2)
	require.Equal(t, uint64(60), p.Uint64())
	supply, _ := ctrler.TotalSupplyAt(2)
	require.Equal(t, uint64(60), supply.Uint64())

	// cannot unbond more than staked
	_, xerr = ctrler.Unstake(bctx(3), alice, uint256.NewInt(61))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrLackOfStakes))
}

func TestUnstakeWithUnbonding(t *testing.T) {
	ctrler := newTestCtrler(t, ctrlertypes.DurationInBlocks(5))
	alice := types.RandAddress()

	require.NoError(t, ctrler.Stake(bctx(1), alice, uint256.NewInt(100)))
	commit(t, ctrler)

	msgs, xerr := ctrler.Unstake(bctx(2), alice, uint256.NewInt(40))
	require.NoError(t, xerr)
	require.Empty(t, msgs) // funds are locked in a claim
	commit(t, ctrler)

	// power drops at once, supply still counts the unbonding amount
	p, _ := ctrler.StakedPowerAt(alice, 2)
	require.Equal(t, uint64(60), p.Uint64())
	staked, _ := ctrler.TotalStakedAt(2)
	require.Equal(t, uint64(60), staked.Uint64())
	supply, _ := ctrler.TotalSupplyAt(2)
	require.Equal(t, uint64(100), supply.Uint64())

	claims, xerr := ctrler.ClaimsOf(alice)
	require.NoError(t, xerr)
	require.Len(t, claims, 1)
	require.Equal(t, int64(7), claims[0].ReleaseAt.AtHeight)

	// too early
	_, _, xerr = ctrler.Claim(bctx(6), alice)
	require.True(t, xerrors.Equal(xerr, xerrors.ErrNotExpired))

	amt, msgs, xerr := ctrler.Claim(bctx(7), alice)
	require.NoError(t, xerr)
	require.Equal(t, uint64(40), amt.Uint64())
	require.Len(t, msgs, 1)
	commit(t, ctrler)

	supply, _ = ctrler.TotalSupplyAt(7)
	require.Equal(t, uint64(60), supply.Uint64())

	claims, xerr = ctrler.ClaimsOf(alice)
	require.NoError(t, xerr)
	require.Empty(t, claims)

	// nothing left
	_, _, xerr = ctrler.Claim(bctx(8), alice)
	require.True(t, xerrors.Equal(xerr, xerrors.ErrNotFoundStake))
}

func TestClaimLimit(t *testing.T) {
	ctrler := newTestCtrler(t, ctrlertypes.DurationInBlocks(100))
	alice := types.RandAddress()

	require.NoError(t, ctrler.Stake(bctx(1), alice, uint256.NewInt(1000)))
	commit(t, ctrler)

	for i := 0; i < MAX_CLAIMS; i++ {
		_, xerr := ctrler.Unstake(bctx(2), alice, uint256.NewInt(1))
		require.NoError(t, xerr)
		commit(t, ctrler)
	}
	_, xerr := ctrler.Unstake(bctx(3), alice, uint256.NewInt(1))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrTooManyClaims))
}

func TestStakeHandlerInterfaceZeroes(t *testing.T) {
	ctrler := newTestCtrler(t, ctrlertypes.Duration{})

	tot, xerr := ctrler.TotalStakedAt(100)
	require.NoError(t, xerr)
	require.True(t, tot.IsZero())
	supply, xerr := ctrler.TotalSupplyAt(100)
	require.NoError(t, xerr)
	require.True(t, supply.IsZero())
	p, xerr := ctrler.StakedPowerAt(types.RandAddress(), 100)
	require.NoError(t, xerr)
	require.True(t, p.IsZero())
}
