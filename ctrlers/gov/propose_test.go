package gov

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ion-dao/ion-go/ctrlers/gov/proposal"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

func TestProposeGuards(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	// below the submission minimum
	_, _, xerr := env.ctrler.Propose(bctx(1), proposer, payload("small"), uint256.NewInt(9))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrDepositTooSmall))

	// malformed payloads
	_, _, xerr = env.ctrler.Propose(bctx(1), proposer, &ProposePayload{Title: "abc", Description: "long enough"}, uint256.NewInt(10))
	require.Error(t, xerr)
	_, _, xerr = env.ctrler.Propose(bctx(1), proposer, &ProposePayload{Title: "a title", Description: "ab"}, uint256.NewInt(10))
	require.Error(t, xerr)
}

func TestProposeZeroSupply(t *testing.T) {
	env := newTestEnv(t)

	// nothing staked anywhere: proposals are pointless and refused
	_, _, xerr := env.ctrler.Propose(bctx(1), types.RandAddress(), payload("void"), uint256.NewInt(10))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrLackOfStakes))
}

func TestProposeIDsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	require.Equal(t, uint64(1), env.propose(t, 1, proposer, 10))
	require.Equal(t, uint64(2), env.propose(t, 2, proposer, 10))
	require.Equal(t, uint64(2), env.ctrler.ProposalCount())
}

func TestProposeImmediateActivation(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	// paid covers the whole target plus 50 over
	id, msgs, xerr := env.ctrler.Propose(bctx(1), proposer, payload("funded"), uint256.NewInt(150))
	require.NoError(t, xerr)
	require.Len(t, msgs, 1)
	require.Equal(t, proposer, msgs[0].To)
	require.Equal(t, uint64(50), msgs[0].Amount.Uint64())
	env.commit(t)

	prop, xerr := env.ctrler.ReadProposal(bctx(1), id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_OPEN, prop.Status)
	require.Equal(t, uint64(100), prop.TotalDeposit.Uint64())
	require.Equal(t, uint64(100), prop.TotalWeight.Uint64())
	require.Equal(t, int64(11), prop.VotingEnds.AtHeight)
}

func TestDepositGate(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	other := types.RandAddress()
	env.mock.setPower(proposer, 100)

	id := env.propose(t, 1, proposer, 80)

	prop, xerr := env.ctrler.ReadProposal(bctx(2), id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_PENDING, prop.Status)

	// 30 against the remaining 20 crosses the gate; 10 comes back
	msgs, xerr := env.ctrler.Deposit(bctx(2), other, id, uint256.NewInt(30))
	require.NoError(t, xerr)
	require.Len(t, msgs, 1)
	require.Equal(t, uint64(10), msgs[0].Amount.Uint64())
	env.commit(t)

	prop, xerr = env.ctrler.ReadProposal(bctx(2), id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_OPEN, prop.Status)
	require.Equal(t, uint64(100), prop.TotalDeposit.Uint64())

	d1, xerr := env.ctrler.ReadDeposit(id, proposer)
	require.NoError(t, xerr)
	require.Equal(t, uint64(80), d1.Amount.Uint64())
	d2, xerr := env.ctrler.ReadDeposit(id, other)
	require.NoError(t, xerr)
	require.Equal(t, uint64(20), d2.Amount.Uint64())

	// the gate fired once: further deposits are refused
	_, xerr = env.ctrler.Deposit(bctx(3), other, id, uint256.NewInt(5))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrInvalidProposalStatus))
}

func TestDepositAccumulatesPerDepositor(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	id := env.propose(t, 1, proposer, 10)
	_, xerr := env.ctrler.Deposit(bctx(2), proposer, id, uint256.NewInt(15))
	require.NoError(t, xerr)
	env.commit(t)

	d, xerr := env.ctrler.ReadDeposit(id, proposer)
	require.NoError(t, xerr)
	require.Equal(t, uint64(25), d.Amount.Uint64())
}

func TestDepositAbortLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	id := env.propose(t, 1, proposer, 10)

	// the activation lookup fails after the deposit was applied in memory
	env.mock.err = xerrors.NewOrdinary("stake lookup failed")
	_, xerr := env.ctrler.Deposit(bctx(2), proposer, id, uint256.NewInt(90))
	require.Error(t, xerr)
	env.commit(t)

	prop, xerr := env.ctrler.ReadProposal(bctx(2), id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_PENDING, prop.Status)
	require.Equal(t, uint64(10), prop.TotalDeposit.Uint64())

	// a clean retry fills the gate exactly, with nothing left to refund
	env.mock.err = nil
	msgs, xerr := env.ctrler.Deposit(bctx(3), proposer, id, uint256.NewInt(90))
	require.NoError(t, xerr)
	require.Empty(t, msgs)
	env.commit(t)

	prop, xerr = env.ctrler.ReadProposal(bctx(3), id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_OPEN, prop.Status)
	require.Equal(t, uint64(100), prop.TotalDeposit.Uint64())

	d, xerr := env.ctrler.ReadDeposit(id, proposer)
	require.NoError(t, xerr)
	require.Equal(t, uint64(100), d.Amount.Uint64())
}

func TestDepositWindowExpiry(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.mock.setPower(proposer, 100)

	id := env.propose(t, 1, proposer, 10) // window ends at 11

	_, xerr := env.ctrler.Deposit(bctx(11), types.RandAddress(), id, uint256.NewInt(10))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrExpired))

	_, xerr = env.ctrler.Deposit(bctx(2), types.RandAddress(), id, uint256.NewInt(0))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrDepositTooSmall))

	_, xerr = env.ctrler.Deposit(bctx(2), types.RandAddress(), 999, uint256.NewInt(10))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrNotFoundProposal))
}
