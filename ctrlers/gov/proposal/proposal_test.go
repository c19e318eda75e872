package proposal

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/types"
)

func testConfig() *ctrlertypes.DaoConfig {
	return &ctrlertypes.DaoConfig{
		Name:        "testers",
		Description: "a dao for tests",
		Threshold: ctrlertypes.Threshold{
			Threshold:     ctrlertypes.DecPercent(50),
			Quorum:        ctrlertypes.DecPercent(40),
			VetoThreshold: ctrlertypes.DecPercent(33),
		},
		VotingPeriod:       ctrlertypes.DurationInBlocks(10),
		DepositPeriod:      ctrlertypes.DurationInBlocks(10),
		ProposalDeposit:    uint256.NewInt(100),
		ProposalMinDeposit: uint256.NewInt(10),
	}
}

func newTestProposal(t *testing.T) *Proposal {
	prop := NewProposal(1, types.RandAddress(), "a title", "a description", "", nil,
		ctrlertypes.BlockTime{Height: 1, Time: 1_000}, testConfig())
	require.Equal(t, PROPOSAL_PENDING, prop.Status)
	return prop
}

// opens the proposal at height 5 against a pool of totalWeight.
func openTestProposal(t *testing.T, totalWeight uint64) *Proposal {
	prop := newTestProposal(t)
	accepted, refund := prop.ApplyDeposit(uint256.NewInt(100))
	require.Equal(t, uint64(100), accepted.Uint64())
	require.True(t, refund.IsZero())
	require.True(t, prop.DepositMet())

	cfg := testConfig()
	prop.ActivateVotingPeriod(ctrlertypes.BlockTime{Height: 5, Time: 1_040},
		cfg.VotingPeriod, cfg.Threshold, uint256.NewInt(totalWeight))
	require.Equal(t, PROPOSAL_OPEN, prop.Status)
	require.Equal(t, int64(15), prop.VotingEnds.AtHeight)
	return prop
}

func statusAt(t *testing.T, prop *Proposal, height int64) ProposalStatus {
	s, xerr := prop.CurrentStatus(ctrlertypes.BlockTime{Height: height})
	require.NoError(t, xerr)
	return s
}

func TestPendingDepositTimeout(t *testing.T) {
	prop := newTestProposal(t)
	require.Equal(t, int64(11), prop.DepositEnds.AtHeight)

	require.Equal(t, PROPOSAL_PENDING, statusAt(t, prop, 10))
	require.Equal(t, PROPOSAL_REJECTED, statusAt(t, prop, 11))
	// derivation never mutates the record
	require.Equal(t, PROPOSAL_PENDING, prop.Status)
}

func TestDepositAccumulationAndOverpay(t *testing.T) {
	prop := newTestProposal(t)

	accepted, refund := prop.ApplyDeposit(uint256.NewInt(80))
	require.Equal(t, uint64(80), accepted.Uint64())
	require.True(t, refund.IsZero())
	require.False(t, prop.DepositMet())

	// 30 against the remaining 20: capped, 10 back
	accepted, refund = prop.ApplyDeposit(uint256.NewInt(30))
	require.Equal(t, uint64(20), accepted.Uint64())
	require.Equal(t, uint64(10), refund.Uint64())
	require.Equal(t, uint64(100), prop.TotalDeposit.Uint64())
	require.True(t, prop.DepositMet())
}

func TestActivationFreezesRules(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.Equal(t, uint64(100), prop.TotalWeight.Uint64())
	require.Equal(t, int64(5), prop.ActivatedAt.Height)

	frozen := prop.Threshold.Threshold.Clone()
	require.True(t, frozen.Equal(ctrlertypes.DecPercent(50)))
}

func TestFinalOutcomeOverOpinions(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.NoError(t, prop.Votes.Submit(VOTE_NO, uint256.NewInt(40)))
	require.NoError(t, prop.Votes.Submit(VOTE_YES, uint256.NewInt(30)))
	require.NoError(t, prop.Votes.Submit(VOTE_ABSTAIN, uint256.NewInt(20)))
	require.NoError(t, prop.Votes.Submit(VOTE_VETO, uint256.NewInt(10)))

	// pre-expiry: 30 yes cannot reach 50 of the worst-case base 80
	require.Equal(t, PROPOSAL_OPEN, statusAt(t, prop, 14))
	// post-expiry: opinions 80, needed 40, yes 30
	require.Equal(t, PROPOSAL_REJECTED, statusAt(t, prop, 15))
}

func TestEarlyPassIsIrreversible(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.NoError(t, prop.Votes.Submit(VOTE_YES, uint256.NewInt(60)))

	// even if every remaining weight voted no, yes keeps the majority
	require.Equal(t, PROPOSAL_PASSED, statusAt(t, prop, 6))
	require.Equal(t, PROPOSAL_PASSED, statusAt(t, prop, 15))
}

func TestNeverEarlyRejected(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.NoError(t, prop.Votes.Submit(VOTE_NO, uint256.NewInt(60)))

	// a sure loss still waits for the window to close
	require.Equal(t, PROPOSAL_OPEN, statusAt(t, prop, 14))
	require.Equal(t, PROPOSAL_REJECTED, statusAt(t, prop, 15))
}

func TestVetoResolvesOnlyAtExpiry(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.NoError(t, prop.Votes.Submit(VOTE_YES, uint256.NewInt(60)))
	require.NoError(t, prop.Votes.Submit(VOTE_VETO, uint256.NewInt(33))) // ceil(0.33*100)=33

	vetoed, xerr := prop.IsVetoed()
	require.NoError(t, xerr)
	require.True(t, vetoed)

	// a live veto blocks the early pass but keeps the window open;
	// it dominates the met threshold only once the window closes
	require.Equal(t, PROPOSAL_OPEN, statusAt(t, prop, 6))
	require.Equal(t, PROPOSAL_OPEN, statusAt(t, prop, 14))
	require.Equal(t, PROPOSAL_REJECTED, statusAt(t, prop, 15))
}

func TestQuorumUnmet(t *testing.T) {
	prop := openTestProposal(t, 100)
	require.NoError(t, prop.Votes.Submit(VOTE_YES, uint256.NewInt(39)))

	// turnout 39 under quorum 40: no pass either way
	require.Equal(t, PROPOSAL_OPEN, statusAt(t, prop, 14))
	require.Equal(t, PROPOSAL_REJECTED, statusAt(t, prop, 15))
}

func TestVotesNeededRounding(t *testing.T) {
	needed, xerr := VotesNeeded(uint256.NewInt(3), ctrlertypes.DecPermille(333))
	require.NoError(t, xerr)
	require.Equal(t, uint64(1), needed.Uint64())

	needed, xerr = VotesNeeded(uint256.NewInt(3), ctrlertypes.DecPermille(334))
	require.NoError(t, xerr)
	require.Equal(t, uint64(2), needed.Uint64())

	needed, xerr = VotesNeeded(uint256.NewInt(34), ctrlertypes.DecPercent(50))
	require.NoError(t, xerr)
	require.Equal(t, uint64(17), needed.Uint64())
}

func TestExecutedIsSticky(t *testing.T) {
	prop := openTestProposal(t, 100)
	prop.Status = PROPOSAL_EXECUTED
	require.Equal(t, PROPOSAL_EXECUTED, statusAt(t, prop, 1<<30))
	require.True(t, prop.Status.IsFinal())
}
