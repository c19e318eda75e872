package proposal

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestVotesTally(t *testing.T) {
	v := NewVotes()
	require.NoError(t, v.Submit(VOTE_YES, uint256.NewInt(30)))
	require.NoError(t, v.Submit(VOTE_NO, uint256.NewInt(40)))
	require.NoError(t, v.Submit(VOTE_ABSTAIN, uint256.NewInt(20)))
	require.NoError(t, v.Submit(VOTE_VETO, uint256.NewInt(10)))

	require.Equal(t, uint64(100), v.Total().Uint64())
	require.Equal(t, uint64(80), v.TotalOpinions().Uint64())

	// a re-vote revokes the old bucket before filling the new one
	require.NoError(t, v.Revoke(VOTE_NO, uint256.NewInt(40)))
	require.NoError(t, v.Submit(VOTE_YES, uint256.NewInt(40)))
	require.Equal(t, uint64(70), v.Yes.Uint64())
	require.Equal(t, uint64(0), v.No.Uint64())
	require.Equal(t, uint64(100), v.Total().Uint64())
}

func TestVotesSubmitOverflowKeepsTally(t *testing.T) {
	v := NewVotes()
	maxWeight := new(uint256.Int).Not(uint256.NewInt(0))
	require.NoError(t, v.Submit(VOTE_YES, maxWeight))

	// the refused weight must not wrap the bucket around
	xerr := v.Submit(VOTE_YES, uint256.NewInt(1))
	require.Error(t, xerr)
	require.Equal(t, maxWeight, v.Yes)
	require.Equal(t, maxWeight, v.Total())
}

func TestVotesRevokeUnderflow(t *testing.T) {
	v := NewVotes()
	require.NoError(t, v.Submit(VOTE_YES, uint256.NewInt(5)))
	require.Error(t, v.Revoke(VOTE_YES, uint256.NewInt(6)))
}

func TestVotesInvalidOption(t *testing.T) {
	v := NewVotes()
	require.Error(t, v.Submit(VoteOption(0), uint256.NewInt(1)))
	require.Error(t, v.Submit(VoteOption(9), uint256.NewInt(1)))
	require.Error(t, VoteOption(9).Validate())
	require.NoError(t, VOTE_ABSTAIN.Validate())
}
