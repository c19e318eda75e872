package gov

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/ion-dao/ion-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

const (
	ledgerCacheSize = 2048

	MinTitleLen = 4
	MaxTitleLen = 64
	MinDescLen  = 4
	MaxDescLen  = 1024
	MaxLinkLen  = 128
)

// DaoCtrler is the governance state machine. It owns five ledgers: the
// DaoState singleton, the proposals, the ballots, the deposits and the
// secondary indexes. Voting power is supplied by an external IStakeHandler.
type DaoCtrler struct {
	daoAddr types.Address
	state   *ctrlertypes.DaoState

	stateLedger    ledger.ILedger[*ctrlertypes.DaoState]
	proposalLedger ledger.ILedger[*proposal.Proposal]
	ballotLedger   ledger.ILedger[*proposal.Ballot]
	depositLedger  ledger.ILedger[*proposal.Deposit]
	indexLedger    ledger.ILedger[*IndexEntry]

	stakeHandler ctrlertypes.IStakeHandler

	logger log.Logger
	mtx    sync.RWMutex
}

func NewDaoCtrler(dbDir string, daoAddr types.Address, stakeHandler ctrlertypes.IStakeHandler, logger log.Logger) (*DaoCtrler, xerrors.XError) {
	stateLedger, xerr := ledger.NewSimpleLedger[*ctrlertypes.DaoState]("dao_state", dbDir, ledgerCacheSize, func() *ctrlertypes.DaoState { return &ctrlertypes.DaoState{} })
	if xerr != nil {
		return nil, xerr
	}
	proposalLedger, xerr := ledger.NewSimpleLedger[*proposal.Proposal]("proposal", dbDir, ledgerCacheSize, func() *proposal.Proposal { return &proposal.Proposal{} })
	if xerr != nil {
		return nil, xerr
	}
	ballotLedger, xerr := ledger.NewSimpleLedger[*proposal.Ballot]("ballot", dbDir, ledgerCacheSize, func() *proposal.Ballot { return &proposal.Ballot{} })
	if xerr != nil {
		return nil, xerr
	}
	depositLedger, xerr := ledger.NewSimpleLedger[*proposal.Deposit]("deposit", dbDir, ledgerCacheSize, func() *proposal.Deposit { return &proposal.Deposit{} })
	if xerr != nil {
		return nil, xerr
	}
	indexLedger, xerr := ledger.NewSimpleLedger[*IndexEntry]("index", dbDir, ledgerCacheSize, newIndexEntryProvider)
	if xerr != nil {
		return nil, xerr
	}

	var state *ctrlertypes.DaoState
	if s, xerr := stateLedger.Read((&ctrlertypes.DaoState{}).Key()); xerr != nil && !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
		return nil, xerr
	} else if xerr == nil {
		state = s
	}

	return &DaoCtrler{
		daoAddr:        daoAddr,
		state:          state,
		stateLedger:    stateLedger,
		proposalLedger: proposalLedger,
		ballotLedger:   ballotLedger,
		depositLedger:  depositLedger,
		indexLedger:    indexLedger,
		stakeHandler:   stakeHandler,
		logger:         logger.With("module", "ion_DaoCtrler"),
	}, nil
}

// GenesisDaoState seeds an empty DB with the organization's initial state.
type GenesisDaoState struct {
	Config          ctrlertypes.DaoConfig       `json:"config"`
	GovDenom        string                      `json:"govDenom"`
	StakingContract types.Address               `json:"stakingContract"`
	TreasuryTokens  []ctrlertypes.TreasuryToken `json:"treasuryTokens,omitempty"`
}

func (ctrler *DaoCtrler) InitLedger(gen *GenesisDaoState) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.state != nil {
		return xerrors.NewOrdinary("dao state already initialized")
	}
	if xerr := gen.Config.Validate(); xerr != nil {
		return xerr
	}

	tokens := []ctrlertypes.TreasuryToken{{Type: ctrlertypes.TokenTypeNative, Denom: gen.GovDenom}}
	for _, t := range gen.TreasuryTokens {
		if t != tokens[0] {
			tokens = append(tokens, t)
		}
	}
	ctrler.state = &ctrlertypes.DaoState{
		Config:          gen.Config.Clone(),
		GovDenom:        gen.GovDenom,
		StakingContract: gen.StakingContract,
		TreasuryTokens:  tokens,
	}
	return ctrler.stateLedger.Set(ctrler.state)
}

func (ctrler *DaoCtrler) readyState(bt ctrlertypes.BlockTime) (*ctrlertypes.DaoState, xerrors.XError) {
	if ctrler.state == nil {
		return nil, xerrors.NewOrdinary("dao state is not initialized")
	}
	if ctrler.state.IsPaused(bt) {
		return nil, xerrors.ErrPaused.Wrapf("until %+v", ctrler.state.PausedUntil)
	}
	return ctrler.state, nil
}

// getProposal returns a private copy of the proposal. The ledger cache
// keeps the item it handed out, so a caller that mutated it in place and
// then failed would leave the corrupted tally behind for the next reader.
// Callers work on the copy and stage it with Set only once every fallible
// step has cleared.
func (ctrler *DaoCtrler) getProposal(id uint64) (*proposal.Proposal, xerrors.XError) {
	prop, xerr := ctrler.proposalLedger.Get(proposal.ProposalLedgerKey(id))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrNotFoundProposal.Wrapf("id:%d", id)
		}
		return nil, xerr
	}
	return prop.Clone(), nil
}

// setProposalWithStatus persists prop, moving its status index entry when
// the committed status changes. A proposal sits in exactly one status
// bucket at any time.
func (ctrler *DaoCtrler) setProposalWithStatus(prop *proposal.Proposal, newStatus proposal.ProposalStatus) xerrors.XError {
	if prop.Status != newStatus {
		oldKey := NewStatusIndexEntry(prop.Status, prop.ID).Key()
		if _, xerr := ctrler.indexLedger.Del(oldKey); xerr != nil && !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return xerr
		}
		if xerr := ctrler.indexLedger.Set(NewStatusIndexEntry(newStatus, prop.ID)); xerr != nil {
			return xerr
		}
		prop.Status = newStatus
	}
	return ctrler.proposalLedger.Set(prop)
}

// ProposePayload is the caller-supplied content of a new proposal. Actions
// are stored opaque and returned verbatim at execution.
type ProposePayload struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Link        string                  `json:"link,omitempty"`
	Actions     []ctrlertypes.ActionMsg `json:"actions,omitempty"`
}

func (p *ProposePayload) Validate() xerrors.XError {
	if n := len(p.Title); n < MinTitleLen || n > MaxTitleLen {
		return xerrors.NewOrdinary("title length out of range").Wrapf("len:%d", n)
	}
	if n := len(p.Description); n < MinDescLen || n > MaxDescLen {
		return xerrors.NewOrdinary("description length out of range").Wrapf("len:%d", n)
	}
	if n := len(p.Link); n > MaxLinkLen {
		return xerrors.NewOrdinary("link length out of range").Wrapf("len:%d", n)
	}
	for _, a := range p.Actions {
		if xerr := a.Validate(); xerr != nil {
			return xerr
		}
	}
	return nil
}

// Propose opens a new proposal funded with paid. The paid amount must reach
// the configured minimum; any amount beyond the activation target comes
// back as a refund transfer. When paid alone meets the target the voting
// window opens immediately.
func (ctrler *DaoCtrler) Propose(bctx *ctrlertypes.BlockContext, sender types.Address, payload *ProposePayload, paid *uint256.Int) (uint64, []ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	state, xerr := ctrler.readyState(bctx.BlockTime)
	if xerr != nil {
		return 0, nil, xerr
	}
	if xerr := payload.Validate(); xerr != nil {
		return 0, nil, xerr
	}
	if paid == nil || paid.Lt(state.Config.ProposalMinDeposit) {
		return 0, nil, xerrors.ErrDepositTooSmall.Wrapf("paid:%v, min:%v", paid, state.Config.ProposalMinDeposit)
	}
	totalSupply, xerr := ctrler.stakeHandler.TotalSupplyAt(bctx.Height)
	if xerr != nil {
		return 0, nil, xerr
	}
	if totalSupply.IsZero() {
		return 0, nil, xerrors.ErrLackOfStakes.Wrapf("zero total supply at height %d", bctx.Height)
	}

	id := state.ProposalCount + 1
	prop := proposal.NewProposal(id, sender, payload.Title, payload.Description, payload.Link, payload.Actions, bctx.BlockTime, &state.Config)

	accepted, refund := prop.ApplyDeposit(paid)
	dep := proposal.NewDeposit(id, sender, accepted)

	if prop.DepositMet() {
		if xerr := ctrler.activateVotingPeriod(bctx.BlockTime, prop); xerr != nil {
			return 0, nil, xerr
		}
	}

	// the id is reserved only after every fallible step has cleared
	state.ProposalCount = id

	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return 0, nil, xerr
	}
	if xerr := ctrler.indexLedger.Set(NewStatusIndexEntry(prop.Status, id)); xerr != nil {
		return 0, nil, xerr
	}
	if xerr := ctrler.indexLedger.Set(NewProposerIndexEntry(sender, id)); xerr != nil {
		return 0, nil, xerr
	}
	if xerr := ctrler.depositLedger.Set(dep); xerr != nil {
		return 0, nil, xerr
	}
	if xerr := ctrler.indexLedger.Set(NewDepositorIndexEntry(sender, id)); xerr != nil {
		return 0, nil, xerr
	}
	if xerr := ctrler.stateLedger.Set(state); xerr != nil {
		return 0, nil, xerr
	}

	var msgs []ctrlertypes.TransferMsg
	if !refund.IsZero() {
		msgs = append(msgs, ctrlertypes.NewTransferMsg(sender, refund))
	}

	ctrler.logger.Debug("proposal submitted",
		"id", id, "proposer", sender, "status", prop.Status.String(), "deposit", prop.TotalDeposit.Dec())
	return id, msgs, nil
}

func (ctrler *DaoCtrler) activateVotingPeriod(bt ctrlertypes.BlockTime, prop *proposal.Proposal) xerrors.XError {
	totalWeight, xerr := ctrler.stakeHandler.TotalStakedAt(bt.Height)
	if xerr != nil {
		return xerr
	}
	prop.ActivateVotingPeriod(bt, ctrler.state.Config.VotingPeriod, ctrler.state.Config.Threshold, totalWeight)
	ctrler.logger.Info("voting period activated",
		"id", prop.ID, "totalWeight", totalWeight.Dec(), "ends", prop.VotingEnds)
	return nil
}

// Deposit adds funds to a pending proposal. Deposits from the same sender
// accumulate. Crossing the activation target opens the voting window; the
// part beyond the target is refunded.
func (ctrler *DaoCtrler) Deposit(bctx *ctrlertypes.BlockContext, sender types.Address, propID uint64, paid *uint256.Int) ([]ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if _, xerr := ctrler.readyState(bctx.BlockTime); xerr != nil {
		return nil, xerr
	}
	if paid == nil || paid.IsZero() {
		return nil, xerrors.ErrDepositTooSmall.Wrapf("zero deposit")
	}
	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return nil, xerr
	}
	if prop.Status != proposal.PROPOSAL_PENDING {
		return nil, xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", prop.Status, proposal.PROPOSAL_PENDING)
	}
	if prop.DepositEnds.IsExpired(bctx.BlockTime) {
		return nil, xerrors.ErrExpired.Wrapf("deposit window of proposal %d closed", propID)
	}

	accepted, refund := prop.ApplyDeposit(paid)

	depKey := proposal.DepositLedgerKey(propID, sender)
	dep, xerr := ctrler.depositLedger.Get(depKey)
	if xerr != nil {
		if !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerr
		}
		dep = proposal.NewDeposit(propID, sender, accepted)
	} else {
		dep = dep.Clone()
		dep.Amount = new(uint256.Int).Add(dep.Amount, accepted)
	}

	oldStatus := prop.Status
	if prop.DepositMet() {
		if xerr := ctrler.activateVotingPeriod(bctx.BlockTime, prop); xerr != nil {
			return nil, xerr
		}
	}
	if prop.Status != oldStatus {
		if _, xerr := ctrler.indexLedger.Del(NewStatusIndexEntry(oldStatus, propID).Key()); xerr != nil && !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerr
		}
		if xerr := ctrler.indexLedger.Set(NewStatusIndexEntry(prop.Status, propID)); xerr != nil {
			return nil, xerr
		}
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.depositLedger.Set(dep); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.indexLedger.Set(NewDepositorIndexEntry(sender, propID)); xerr != nil {
		return nil, xerr
	}

	var msgs []ctrlertypes.TransferMsg
	if !refund.IsZero() {
		msgs = append(msgs, ctrlertypes.NewTransferMsg(sender, refund))
	}

	ctrler.logger.Debug("deposit received",
		"id", propID, "depositor", sender, "accepted", accepted.Dec(), "total", prop.TotalDeposit.Dec(), "status", prop.Status.String())
	return msgs, nil
}

// Vote records sender's choice with the voting power snapshotted at the
// proposal's activation height. A second vote replaces the first; the
// voter's weight is never counted twice.
func (ctrler *DaoCtrler) Vote(bctx *ctrlertypes.BlockContext, sender types.Address, propID uint64, opt proposal.VoteOption) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if _, xerr := ctrler.readyState(bctx.BlockTime); xerr != nil {
		return xerr
	}
	if xerr := opt.Validate(); xerr != nil {
		return xerr
	}
	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return xerr
	}
	if prop.Status != proposal.PROPOSAL_OPEN {
		return xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", prop.Status, proposal.PROPOSAL_OPEN)
	}
	if prop.VotingEnds.IsExpired(bctx.BlockTime) {
		return xerrors.ErrExpired.Wrapf("voting window of proposal %d closed", propID)
	}
	derived, xerr := prop.CurrentStatus(bctx.BlockTime)
	if xerr != nil {
		return xerr
	}
	if derived != proposal.PROPOSAL_OPEN {
		return xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", derived, proposal.PROPOSAL_OPEN)
	}

	weight, xerr := ctrler.stakeHandler.StakedPowerAt(sender, prop.ActivatedAt.Height)
	if xerr != nil {
		return xerr
	}
	if weight.IsZero() {
		return xerrors.ErrUnauthorized.Wrapf("no voting power at height %d", prop.ActivatedAt.Height)
	}

	ballotKey := proposal.BallotLedgerKey(propID, sender)
	if old, xerr := ctrler.ballotLedger.Get(ballotKey); xerr != nil {
		if !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return xerr
		}
	} else if xerr := prop.Votes.Revoke(old.Option, old.Weight); xerr != nil {
		return xerr
	}
	if xerr := prop.Votes.Submit(opt, weight); xerr != nil {
		return xerr
	}

	if xerr := ctrler.ballotLedger.Set(proposal.NewBallot(propID, sender, opt, weight)); xerr != nil {
		return xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("vote cast", "id", propID, "voter", sender, "option", opt.String(), "weight", weight.Dec())
	return nil
}

// Execute crystallizes a passed proposal once its voting window has closed
// and returns the stored action batch for dispatch. Deposits become
// refundable; the first page of refunds is pushed immediately and the rest
// is withdrawn with ClaimDeposit.
func (ctrler *DaoCtrler) Execute(bctx *ctrlertypes.BlockContext, sender types.Address, propID uint64) ([]ctrlertypes.ActionMsg, []ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if _, xerr := ctrler.readyState(bctx.BlockTime); xerr != nil {
		return nil, nil, xerr
	}
	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return nil, nil, xerr
	}
	if prop.Status != proposal.PROPOSAL_OPEN {
		return nil, nil, xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", prop.Status, proposal.PROPOSAL_OPEN)
	}
	if !prop.VotingEnds.IsExpired(bctx.BlockTime) {
		return nil, nil, xerrors.ErrNotExpired.Wrapf("voting window of proposal %d still open", propID)
	}
	derived, xerr := prop.CurrentStatus(bctx.BlockTime)
	if xerr != nil {
		return nil, nil, xerr
	}
	if derived != proposal.PROPOSAL_PASSED {
		return nil, nil, xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", derived, proposal.PROPOSAL_PASSED)
	}

	prop.DepositClaimable = true
	msgs, xerr := ctrler.settleDeposits(prop, DEFAULT_LIMIT)
	if xerr != nil {
		return nil, nil, xerr
	}
	if xerr := ctrler.setProposalWithStatus(prop, proposal.PROPOSAL_EXECUTED); xerr != nil {
		return nil, nil, xerr
	}

	actions := make([]ctrlertypes.ActionMsg, len(prop.Actions))
	copy(actions, prop.Actions)

	ctrler.logger.Info("proposal executed", "id", propID, "actions", len(actions), "refunds", len(msgs))
	return actions, msgs, nil
}

// CloseProposal settles a proposal whose window lapsed without success. A
// pending proposal that never met its deposit is rejected and its deposits
// are confiscated. An open proposal that failed is rejected; deposits are
// refunded unless the rejection came from a veto.
func (ctrler *DaoCtrler) CloseProposal(bctx *ctrlertypes.BlockContext, sender types.Address, propID uint64) (proposal.ProposalStatus, []ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if _, xerr := ctrler.readyState(bctx.BlockTime); xerr != nil {
		return 0, nil, xerr
	}
	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return 0, nil, xerr
	}

	var msgs []ctrlertypes.TransferMsg
	switch prop.Status {
	case proposal.PROPOSAL_PENDING:
		if !prop.DepositEnds.IsExpired(bctx.BlockTime) {
			return 0, nil, xerrors.ErrNotExpired.Wrapf("deposit window of proposal %d still open", propID)
		}
		// activation never happened; deposits are forfeited to the treasury

	case proposal.PROPOSAL_OPEN:
		if !prop.VotingEnds.IsExpired(bctx.BlockTime) {
			return 0, nil, xerrors.ErrNotExpired.Wrapf("voting window of proposal %d still open", propID)
		}
		derived, xerr := prop.CurrentStatus(bctx.BlockTime)
		if xerr != nil {
			return 0, nil, xerr
		}
		if derived != proposal.PROPOSAL_REJECTED {
			return 0, nil, xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, want:%s", derived, proposal.PROPOSAL_REJECTED)
		}
		vetoed, xerr := prop.IsVetoed()
		if xerr != nil {
			return 0, nil, xerr
		}
		if !vetoed {
			prop.DepositClaimable = true
			if msgs, xerr = ctrler.settleDeposits(prop, DEFAULT_LIMIT); xerr != nil {
				return 0, nil, xerr
			}
		}

	default:
		return 0, nil, xerrors.ErrInvalidProposalStatus.Wrapf("status:%s, not closable", prop.Status)
	}

	if xerr := ctrler.setProposalWithStatus(prop, proposal.PROPOSAL_REJECTED); xerr != nil {
		return 0, nil, xerr
	}

	ctrler.logger.Info("proposal closed", "id", propID, "claimable", prop.DepositClaimable, "refunds", len(msgs))
	return proposal.PROPOSAL_REJECTED, msgs, nil
}

// settleDeposits marks every deposit of prop claimable and pushes refund
// transfers for the first push depositors, marking those claimed. Scans the
// committed tree; deposits staged in the same commit window are settled by
// ClaimDeposit instead.
func (ctrler *DaoCtrler) settleDeposits(prop *proposal.Proposal, push int) ([]ctrlertypes.TransferMsg, xerrors.XError) {
	var deps []*proposal.Deposit
	start, end := ledger.PrefixRange(ledger.U64ToBytes(prop.ID))
	if xerr := ctrler.depositLedger.IterateRange(start, end, true, func(d *proposal.Deposit) xerrors.XError {
		deps = append(deps, d)
		return nil
	}); xerr != nil {
		return nil, xerr
	}

	var msgs []ctrlertypes.TransferMsg
	for i, d := range deps {
		d.Claimable = true
		if i < push && !d.Claimed {
			d.Claimed = true
			msgs = append(msgs, ctrlertypes.NewTransferMsg(d.Depositor, d.Amount))
		}
		if xerr := ctrler.depositLedger.Set(d); xerr != nil {
			return nil, xerr
		}
	}
	return msgs, nil
}

// ClaimDeposit withdraws sender's refundable deposit on a settled proposal.
func (ctrler *DaoCtrler) ClaimDeposit(bctx *ctrlertypes.BlockContext, sender types.Address, propID uint64) (*uint256.Int, []ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if _, xerr := ctrler.readyState(bctx.BlockTime); xerr != nil {
		return nil, nil, xerr
	}
	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return nil, nil, xerr
	}
	if !prop.DepositClaimable {
		return nil, nil, xerrors.ErrDepositNotClaimable.Wrapf("id:%d, status:%s", propID, prop.Status)
	}
	dep, xerr := ctrler.depositLedger.Get(proposal.DepositLedgerKey(propID, sender))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, nil, xerrors.ErrNotFoundDeposit.Wrapf("id:%d, depositor:%v", propID, sender)
		}
		return nil, nil, xerr
	}
	if dep.Claimed {
		return nil, nil, xerrors.ErrDepositAlreadyClaimed.Wrapf("id:%d, depositor:%v", propID, sender)
	}

	dep = dep.Clone()
	dep.Claimable = true
	dep.Claimed = true
	if xerr := ctrler.depositLedger.Set(dep); xerr != nil {
		return nil, nil, xerr
	}

	ctrler.logger.Debug("deposit claimed", "id", propID, "depositor", sender, "amount", dep.Amount.Dec())
	return new(uint256.Int).Set(dep.Amount), []ctrlertypes.TransferMsg{ctrlertypes.NewTransferMsg(sender, dep.Amount)}, nil
}

func (ctrler *DaoCtrler) checkSelf(sender types.Address) xerrors.XError {
	if sender.Compare(ctrler.daoAddr) != 0 {
		return xerrors.ErrUnauthorized.Wrapf("sender:%v, want:%v", sender, ctrler.daoAddr)
	}
	return nil
}

// PauseDAO suspends every state-changing operation until the expiration.
// Only the organization itself, acting through an executed proposal, may
// pause. The pause lifts on its own once the expiration passes.
func (ctrler *DaoCtrler) PauseDAO(bctx *ctrlertypes.BlockContext, sender types.Address, until ctrlertypes.Expiration) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	state, xerr := ctrler.readyState(bctx.BlockTime)
	if xerr != nil {
		return xerr
	}
	if xerr := ctrler.checkSelf(sender); xerr != nil {
		return xerr
	}
	if until.IsZero() || until.IsExpired(bctx.BlockTime) {
		return xerrors.ErrInvalidPeriod.Wrapf("pause expiration %+v already passed", until)
	}

	state.PausedUntil = until
	if xerr := ctrler.stateLedger.Set(state); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("dao paused", "until", until)
	return nil
}

// UpdateConfig replaces the live config. Proposals already open keep the
// rules frozen at their activation.
func (ctrler *DaoCtrler) UpdateConfig(bctx *ctrlertypes.BlockContext, sender types.Address, newCfg *ctrlertypes.DaoConfig) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	state, xerr := ctrler.readyState(bctx.BlockTime)
	if xerr != nil {
		return xerr
	}
	if xerr := ctrler.checkSelf(sender); xerr != nil {
		return xerr
	}
	if xerr := newCfg.Validate(); xerr != nil {
		return xerr
	}

	state.Config = newCfg.Clone()
	if xerr := ctrler.stateLedger.Set(state); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("config updated", "name", state.Config.Name)
	return nil
}

func (ctrler *DaoCtrler) UpdateStakingContract(bctx *ctrlertypes.BlockContext, sender types.Address, addr types.Address) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	state, xerr := ctrler.readyState(bctx.BlockTime)
	if xerr != nil {
		return xerr
	}
	if xerr := ctrler.checkSelf(sender); xerr != nil {
		return xerr
	}
	if len(addr) != types.AddrSize {
		return xerrors.NewOrdinary("invalid staking contract address").Wrapf("len:%d", len(addr))
	}

	state.StakingContract = addr
	if xerr := ctrler.stateLedger.Set(state); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("staking contract updated", "addr", addr)
	return nil
}

func (ctrler *DaoCtrler) UpdateTokenList(bctx *ctrlertypes.BlockContext, sender types.Address, add, remove []ctrlertypes.TreasuryToken) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	state, xerr := ctrler.readyState(bctx.BlockTime)
	if xerr != nil {
		return xerr
	}
	if xerr := ctrler.checkSelf(sender); xerr != nil {
		return xerr
	}
	if len(add)+len(remove) > MAX_LIMIT {
		return xerrors.ErrOversizedRequest.Wrapf("add:%d, remove:%d, max:%d", len(add), len(remove), MAX_LIMIT)
	}

	for _, t := range add {
		state.AddToken(t)
	}
	for _, t := range remove {
		state.RemoveToken(t)
	}
	if xerr := ctrler.stateLedger.Set(state); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("treasury token list updated", "tokens", len(state.TreasuryTokens))
	return nil
}

// Commit flushes every staged change and returns an app hash combining the
// root hashes of all five ledgers, plus the new version.
func (ctrler *DaoCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ledgers := []ctrlertypes.ILedgerHandler{
		ctrler.stateLedger, ctrler.proposalLedger, ctrler.ballotLedger, ctrler.depositLedger, ctrler.indexLedger,
	}

	var appHash []byte
	var version int64
	for _, l := range ledgers {
		h, v, xerr := l.Commit()
		if xerr != nil {
			return nil, 0, xerr
		}
		appHash = append(appHash, h...)
		version = v
	}
	return tmhash.Sum(appHash), version, nil
}

func (ctrler *DaoCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ledgers := []ctrlertypes.ILedgerHandler{
		ctrler.stateLedger, ctrler.proposalLedger, ctrler.ballotLedger, ctrler.depositLedger, ctrler.indexLedger,
	}
	for _, l := range ledgers {
		if l == nil {
			continue
		}
		if xerr := l.Close(); xerr != nil {
			return xerr
		}
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*DaoCtrler)(nil)
