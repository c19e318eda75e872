package proposal

import (
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Proposal is the persisted record of one governance proposal. Status holds
// the last committed status; time-derived transitions (deposit timeout,
// voting end) are computed by CurrentStatus and written back lazily by the
// next state-changing operation.
//
// Threshold and TotalWeight are frozen when voting activates, so config
// updates and stake movements never affect a proposal already open.
type Proposal struct {
	ID          uint64                  `json:"id"`
	Proposer    types.Address           `json:"proposer"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Link        string                  `json:"link,omitempty"`
	Actions     []ctrlertypes.ActionMsg `json:"actions,omitempty"`
	Status      ProposalStatus          `json:"status"`
	SubmittedAt ctrlertypes.BlockTime   `json:"submittedAt"`
	ActivatedAt ctrlertypes.BlockTime   `json:"activatedAt"`
	DepositEnds ctrlertypes.Expiration  `json:"depositEnds"`
	VotingEnds  ctrlertypes.Expiration  `json:"votingEnds"`
	Threshold   ctrlertypes.Threshold   `json:"threshold"`

	// DepositBase is the activation target frozen at submission; config
	// updates during the deposit window do not move the bar.
	DepositBase      *uint256.Int `json:"depositBase"`
	TotalDeposit     *uint256.Int `json:"totalDeposit"`
	DepositClaimable bool         `json:"depositClaimable"`

	TotalWeight *uint256.Int `json:"totalWeight"`
	Votes       Votes        `json:"votes"`
}

func NewProposal(
	id uint64,
	proposer types.Address,
	title, description, link string,
	actions []ctrlertypes.ActionMsg,
	bt ctrlertypes.BlockTime,
	cfg *ctrlertypes.DaoConfig,
) *Proposal {
	return &Proposal{
		ID:           id,
		Proposer:     proposer,
		Title:        title,
		Description:  description,
		Link:         link,
		Actions:      actions,
		Status:       PROPOSAL_PENDING,
		SubmittedAt:  bt,
		DepositEnds:  cfg.DepositPeriod.After(bt),
		Threshold:    cfg.Threshold.Clone(),
		DepositBase:  new(uint256.Int).Set(cfg.ProposalDeposit),
		TotalDeposit: uint256.NewInt(0),
		TotalWeight:  uint256.NewInt(0),
		Votes:        NewVotes(),
	}
}

func ProposalLedgerKey(id uint64) ledger.LedgerKey {
	return ledger.ToLedgerKey(ledger.U64ToBytes(id))
}

func (p *Proposal) Key() ledger.LedgerKey {
	return ProposalLedgerKey(p.ID)
}

func (p *Proposal) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(p); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (p *Proposal) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, p); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Proposal)(nil)

// ApplyDeposit credits amount against the activation target and returns
// how much was accepted and how much exceeds the target and must be
// returned to the depositor. TotalDeposit never exceeds DepositBase.
func (p *Proposal) ApplyDeposit(amount *uint256.Int) (accepted, refund *uint256.Int) {
	room := uint256.NewInt(0)
	if p.DepositBase.Gt(p.TotalDeposit) {
		room.Sub(p.DepositBase, p.TotalDeposit)
	}
	if amount.Gt(room) {
		accepted = room
		refund = new(uint256.Int).Sub(amount, room)
	} else {
		accepted = new(uint256.Int).Set(amount)
		refund = uint256.NewInt(0)
	}
	p.TotalDeposit = new(uint256.Int).Add(p.TotalDeposit, accepted)
	return
}

// DepositMet reports whether the activation target is fully funded.
func (p *Proposal) DepositMet() bool {
	return !p.TotalDeposit.Lt(p.DepositBase)
}

// ActivateVotingPeriod opens the proposal for voting, freezing the pass
// rules and the eligible weight as of bt.
func (p *Proposal) ActivateVotingPeriod(
	bt ctrlertypes.BlockTime,
	votingPeriod ctrlertypes.Duration,
	th ctrlertypes.Threshold,
	totalWeight *uint256.Int,
) {
	p.Status = PROPOSAL_OPEN
	p.ActivatedAt = bt
	p.VotingEnds = votingPeriod.After(bt)
	p.Threshold = th.Clone()
	p.TotalWeight = new(uint256.Int).Set(totalWeight)
}

// VotesNeeded is the smallest vote weight satisfying fraction over base:
// ceil(fraction * base).
func VotesNeeded(base *uint256.Int, fraction ctrlertypes.Dec) (*uint256.Int, xerrors.XError) {
	return fraction.MulWeightCeil(base)
}

// IsVetoed reports whether the veto bucket alone reaches the veto fraction
// of the frozen eligible weight. A veto rejects regardless of yes votes.
func (p *Proposal) IsVetoed() (bool, xerrors.XError) {
	needed, xerr := VotesNeeded(p.TotalWeight, p.Threshold.VetoThreshold)
	if xerr != nil {
		return false, xerr
	}
	return !p.Votes.Veto.Lt(needed), nil
}

// IsPassed reports whether the proposal meets quorum and threshold at bt.
// Before the voting end it measures yes votes against every weight that
// could still vote against, so a pass here can never be reversed by later
// votes. After the voting end only cast opinions count.
func (p *Proposal) IsPassed(bt ctrlertypes.BlockTime) (bool, xerrors.XError) {
	quorumNeeded, xerr := VotesNeeded(p.TotalWeight, p.Threshold.Quorum)
	if xerr != nil {
		return false, xerr
	}
	if p.Votes.Total().Lt(quorumNeeded) {
		return false, nil
	}

	var base *uint256.Int
	if p.VotingEnds.IsExpired(bt) {
		base = p.Votes.TotalOpinions()
	} else {
		if p.Votes.Abstain.Gt(p.TotalWeight) {
			return false, xerrors.ErrOverflow.Wrapf("abstain exceeds total weight")
		}
		base = new(uint256.Int).Sub(p.TotalWeight, p.Votes.Abstain)
	}
	needed, xerr := VotesNeeded(base, p.Threshold.Threshold)
	if xerr != nil {
		return false, xerr
	}
	return !p.Votes.Yes.Lt(needed), nil
}

// CurrentStatus derives the effective status at bt from the committed
// status and the clock. It never mutates the proposal.
//
// A pending proposal whose deposit window closed without activation is
// rejected. An open proposal may resolve early only as Passed, and only
// while no veto is in force; every rejection, vetoed or not, waits for
// the voting window to close so voters can still change their minds.
// Final statuses are sticky.
func (p *Proposal) CurrentStatus(bt ctrlertypes.BlockTime) (ProposalStatus, xerrors.XError) {
	switch p.Status {
	case PROPOSAL_PENDING:
		if p.DepositEnds.IsExpired(bt) {
			return PROPOSAL_REJECTED, nil
		}
	case PROPOSAL_OPEN:
		vetoed, xerr := p.IsVetoed()
		if xerr != nil {
			return p.Status, xerr
		}
		if p.VotingEnds.IsExpired(bt) {
			if vetoed {
				return PROPOSAL_REJECTED, nil
			}
			if passed, xerr := p.IsPassed(bt); xerr != nil {
				return p.Status, xerr
			} else if passed {
				return PROPOSAL_PASSED, nil
			}
			return PROPOSAL_REJECTED, nil
		}
		if !vetoed {
			if passed, xerr := p.IsPassed(bt); xerr != nil {
				return p.Status, xerr
			} else if passed {
				return PROPOSAL_PASSED, nil
			}
		}
	}
	return p.Status, nil
}

func (p *Proposal) Clone() *Proposal {
	actions := make([]ctrlertypes.ActionMsg, len(p.Actions))
	copy(actions, p.Actions)
	return &Proposal{
		ID:               p.ID,
		Proposer:         append(types.Address(nil), p.Proposer...),
		Title:            p.Title,
		Description:      p.Description,
		Link:             p.Link,
		Actions:          actions,
		Status:           p.Status,
		SubmittedAt:      p.SubmittedAt,
		ActivatedAt:      p.ActivatedAt,
		DepositEnds:      p.DepositEnds,
		VotingEnds:       p.VotingEnds,
		Threshold:        p.Threshold.Clone(),
		DepositBase:      new(uint256.Int).Set(p.DepositBase),
		TotalDeposit:     new(uint256.Int).Set(p.TotalDeposit),
		DepositClaimable: p.DepositClaimable,
		TotalWeight:      new(uint256.Int).Set(p.TotalWeight),
		Votes:            p.Votes.Clone(),
	}
}
