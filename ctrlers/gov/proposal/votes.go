package proposal

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ion-dao/ion-go/types/xerrors"
)

type VoteOption int32

const (
	VOTE_YES VoteOption = 1 + iota
	VOTE_NO
	VOTE_ABSTAIN
	VOTE_VETO
)

func (o VoteOption) String() string {
	switch o {
	case VOTE_YES:
		return "yes"
	case VOTE_NO:
		return "no"
	case VOTE_ABSTAIN:
		return "abstain"
	case VOTE_VETO:
		return "veto"
	default:
		return fmt.Sprintf("unknown(%d)", int32(o))
	}
}

func (o VoteOption) Validate() xerrors.XError {
	if o < VOTE_YES || o > VOTE_VETO {
		return xerrors.NewOrdinary("invalid vote option").Wrapf("option:%d", int32(o))
	}
	return nil
}

// Votes is the running tally of one proposal, in units of voting power.
type Votes struct {
	Yes     *uint256.Int `json:"yes"`
	No      *uint256.Int `json:"no"`
	Abstain *uint256.Int `json:"abstain"`
	Veto    *uint256.Int `json:"veto"`
}

func NewVotes() Votes {
	return Votes{
		Yes:     uint256.NewInt(0),
		No:      uint256.NewInt(0),
		Abstain: uint256.NewInt(0),
		Veto:    uint256.NewInt(0),
	}
}

func (v *Votes) bucket(opt VoteOption) (*uint256.Int, xerrors.XError) {
	switch opt {
	case VOTE_YES:
		return v.Yes, nil
	case VOTE_NO:
		return v.No, nil
	case VOTE_ABSTAIN:
		return v.Abstain, nil
	case VOTE_VETO:
		return v.Veto, nil
	default:
		return nil, xerrors.NewOrdinary("invalid vote option").Wrapf("option:%d", int32(opt))
	}
}

// Submit adds weight to the bucket of opt. On overflow the bucket keeps
// its old value; AddOverflow writes the wrapped sum into its receiver, so
// the sum goes into a scratch value first.
func (v *Votes) Submit(opt VoteOption, weight *uint256.Int) xerrors.XError {
	b, xerr := v.bucket(opt)
	if xerr != nil {
		return xerr
	}
	sum, over := new(uint256.Int).AddOverflow(b, weight)
	if over {
		return xerrors.ErrOverflow.Wrapf("tally %s overflows", opt)
	}
	b.Set(sum)
	return nil
}

// Revoke removes weight from the bucket of opt. Used when a ballot is
// replaced by a re-vote.
func (v *Votes) Revoke(opt VoteOption, weight *uint256.Int) xerrors.XError {
	b, xerr := v.bucket(opt)
	if xerr != nil {
		return xerr
	}
	if b.Lt(weight) {
		return xerrors.ErrOverflow.Wrapf("tally %s underflows", opt)
	}
	b.Sub(b, weight)
	return nil
}

// Total is the turnout: every cast weight including abstentions.
func (v *Votes) Total() *uint256.Int {
	t := new(uint256.Int).Add(v.Yes, v.No)
	t.Add(t, v.Abstain)
	return t.Add(t, v.Veto)
}

// TotalOpinions is the turnout excluding abstentions.
func (v *Votes) TotalOpinions() *uint256.Int {
	t := new(uint256.Int).Add(v.Yes, v.No)
	return t.Add(t, v.Veto)
}

func (v *Votes) Clone() Votes {
	return Votes{
		Yes:     new(uint256.Int).Set(v.Yes),
		No:      new(uint256.Int).Set(v.No),
		Abstain: new(uint256.Int).Set(v.Abstain),
		Veto:    new(uint256.Int).Set(v.Veto),
	}
}
