package gov

import (
	"encoding/json"

	"github.com/ion-dao/ion-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	abytes "github.com/ion-dao/ion-go/types/bytes"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Listing queries page over committed state with an exclusive start cursor.
const (
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 30
)

func normLimit(limit int) (int, xerrors.XError) {
	if limit <= 0 {
		return DEFAULT_LIMIT, nil
	}
	if limit > MAX_LIMIT {
		return 0, xerrors.ErrOversizedRequest.Wrapf("limit:%d, max:%d", limit, MAX_LIMIT)
	}
	return limit, nil
}

// cursorRange turns an exclusive cursor key under prefix into iteration
// bounds. Ascending scans resume just above the cursor; descending scans
// stop just below it.
func cursorRange(prefix, cursor []byte, desc bool) (start, end []byte) {
	start, end = ledger.PrefixRange(prefix)
	if len(cursor) == 0 {
		return
	}
	if desc {
		end = append(append([]byte(nil), prefix...), cursor...)
	} else {
		start = ledger.IncBytes(append(append([]byte(nil), prefix...), cursor...))
	}
	return
}

func (ctrler *DaoCtrler) GetConfig() (*ctrlertypes.DaoConfig, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if ctrler.state == nil {
		return nil, xerrors.ErrNotFoundResult.Wrapf("dao state is not initialized")
	}
	cfg := ctrler.state.Config.Clone()
	return &cfg, nil
}

func (ctrler *DaoCtrler) ProposalCount() uint64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if ctrler.state == nil {
		return 0
	}
	return ctrler.state.ProposalCount
}

func (ctrler *DaoCtrler) TokenList() []ctrlertypes.TreasuryToken {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if ctrler.state == nil {
		return nil
	}
	return append([]ctrlertypes.TreasuryToken(nil), ctrler.state.TreasuryTokens...)
}

// ReadProposal returns the committed proposal with its status derived at
// bctx, without mutating anything.
func (ctrler *DaoCtrler) ReadProposal(bctx *ctrlertypes.BlockContext, id uint64) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.readProposalAt(bctx.BlockTime, id)
}

func (ctrler *DaoCtrler) readProposalAt(bt ctrlertypes.BlockTime, id uint64) (*proposal.Proposal, xerrors.XError) {
	prop, xerr := ctrler.proposalLedger.Read(proposal.ProposalLedgerKey(id))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrNotFoundProposal.Wrapf("id:%d", id)
		}
		return nil, xerr
	}
	ret := prop.Clone()
	derived, xerr := ret.CurrentStatus(bt)
	if xerr != nil {
		return nil, xerr
	}
	ret.Status = derived
	return ret, nil
}

// ProposalFilter narrows a listing. Status takes precedence over Proposer;
// the zero filter lists everything.
type ProposalFilter struct {
	Status   proposal.ProposalStatus `json:"status,omitempty"`
	Proposer types.Address           `json:"proposer,omitempty"`
}

// ReadProposals lists proposals ordered by id. startAfter is an exclusive
// cursor (0 = from the edge); desc reverses the order. Status filtering
// buckets on the committed status, not the derived one.
func (ctrler *DaoCtrler) ReadProposals(bctx *ctrlertypes.BlockContext, filter ProposalFilter, startAfter uint64, limit int, desc bool) ([]*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	limit, xerr := normLimit(limit)
	if xerr != nil {
		return nil, xerr
	}

	var cursor []byte
	if startAfter > 0 {
		cursor = ledger.U64ToBytes(startAfter)
	}

	var ids []uint64
	collect := func(e *IndexEntry) xerrors.XError {
		ids = append(ids, e.ProposalID())
		if len(ids) >= limit {
			return ledger.ErrStopIterate
		}
		return nil
	}

	switch {
	case filter.Status != 0:
		start, end := cursorRange(statusIndexPrefix(filter.Status), cursor, desc)
		if xerr := ctrler.indexLedger.IterateRange(start, end, !desc, collect); xerr != nil {
			return nil, xerr
		}
	case len(filter.Proposer) > 0:
		start, end := cursorRange(proposerIndexPrefix(filter.Proposer), cursor, desc)
		if xerr := ctrler.indexLedger.IterateRange(start, end, !desc, collect); xerr != nil {
			return nil, xerr
		}
	default:
		start, end := cursorRange(nil, cursor, desc)
		n := 0
		if xerr := ctrler.proposalLedger.IterateRange(start, end, !desc, func(p *proposal.Proposal) xerrors.XError {
			ids = append(ids, p.ID)
			n++
			if n >= limit {
				return ledger.ErrStopIterate
			}
			return nil
		}); xerr != nil {
			return nil, xerr
		}
	}

	props := make([]*proposal.Proposal, 0, len(ids))
	for _, id := range ids {
		p, xerr := ctrler.readProposalAt(bctx.BlockTime, id)
		if xerr != nil {
			return nil, xerr
		}
		props = append(props, p)
	}
	return props, nil
}

func (ctrler *DaoCtrler) ReadVote(propID uint64, voter types.Address) (*proposal.Ballot, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	b, xerr := ctrler.ballotLedger.Read(proposal.BallotLedgerKey(propID, voter))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrNotFoundBallot.Wrapf("id:%d, voter:%v", propID, voter)
		}
		return nil, xerr
	}
	return b, nil
}

// ReadVotes lists ballots of one proposal ordered by voter address.
// startAfter is an exclusive address cursor; nil starts at the edge.
func (ctrler *DaoCtrler) ReadVotes(propID uint64, startAfter types.Address, limit int, desc bool) ([]*proposal.Ballot, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	limit, xerr := normLimit(limit)
	if xerr != nil {
		return nil, xerr
	}

	start, end := cursorRange(ledger.U64ToBytes(propID), startAfter, desc)
	var ballots []*proposal.Ballot
	if xerr := ctrler.ballotLedger.IterateRange(start, end, !desc, func(b *proposal.Ballot) xerrors.XError {
		ballots = append(ballots, b)
		if len(ballots) >= limit {
			return ledger.ErrStopIterate
		}
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return ballots, nil
}

func (ctrler *DaoCtrler) ReadDeposit(propID uint64, depositor types.Address) (*proposal.Deposit, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	d, xerr := ctrler.depositLedger.Read(proposal.DepositLedgerKey(propID, depositor))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrNotFoundDeposit.Wrapf("id:%d, depositor:%v", propID, depositor)
		}
		return nil, xerr
	}
	return d, nil
}

// DepositFilter narrows a deposit listing. ProposalID takes precedence
// over Depositor; the zero filter lists everything.
type DepositFilter struct {
	ProposalID uint64        `json:"proposalId,omitempty"`
	Depositor  types.Address `json:"depositor,omitempty"`
}

// ReadDeposits lists deposits. By proposal the cursor is the last
// depositor address; by depositor it is the last proposal id; unfiltered
// it is the composite (id | address) key.
func (ctrler *DaoCtrler) ReadDeposits(filter DepositFilter, startAfter []byte, limit int, desc bool) ([]*proposal.Deposit, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	limit, xerr := normLimit(limit)
	if xerr != nil {
		return nil, xerr
	}

	var deps []*proposal.Deposit
	collect := func(d *proposal.Deposit) xerrors.XError {
		deps = append(deps, d)
		if len(deps) >= limit {
			return ledger.ErrStopIterate
		}
		return nil
	}

	switch {
	case filter.ProposalID != 0:
		start, end := cursorRange(ledger.U64ToBytes(filter.ProposalID), startAfter, desc)
		if xerr := ctrler.depositLedger.IterateRange(start, end, !desc, collect); xerr != nil {
			return nil, xerr
		}
	case len(filter.Depositor) > 0:
		start, end := cursorRange(depositorIndexPrefix(filter.Depositor), startAfter, desc)
		var ids []uint64
		if xerr := ctrler.indexLedger.IterateRange(start, end, !desc, func(e *IndexEntry) xerrors.XError {
			ids = append(ids, e.ProposalID())
			if len(ids) >= limit {
				return ledger.ErrStopIterate
			}
			return nil
		}); xerr != nil {
			return nil, xerr
		}
		for _, id := range ids {
			d, xerr := ctrler.depositLedger.Read(proposal.DepositLedgerKey(id, filter.Depositor))
			if xerr != nil {
				return nil, xerr
			}
			deps = append(deps, d)
		}
	default:
		start, end := cursorRange(nil, startAfter, desc)
		if xerr := ctrler.depositLedger.IterateRange(start, end, !desc, collect); xerr != nil {
			return nil, xerr
		}
	}
	return deps, nil
}

// Query command names accepted by the raw dispatcher.
const (
	QUERY_CONFIG    = "config"
	QUERY_PROPOSAL  = "proposal"
	QUERY_PROPOSALS = "proposals"
	QUERY_VOTE      = "vote"
	QUERY_VOTES     = "votes"
	QUERY_DEPOSIT   = "deposit"
	QUERY_DEPOSITS  = "deposits"
	QUERY_TOKENS    = "tokens"
	QUERY_COUNT     = "count"
)

// QueryData is a raw query envelope: a command name and JSON parameters.
type QueryData struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type queryProposalParams struct {
	ID         uint64          `json:"id,omitempty"`
	Filter     ProposalFilter  `json:"filter,omitempty"`
	StartAfter uint64          `json:"startAfter,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Desc       bool            `json:"desc,omitempty"`
	Voter      types.Address   `json:"voter,omitempty"`
	Depositor  types.Address   `json:"depositor,omitempty"`
	StartKey   abytes.HexBytes `json:"startKey,omitempty"`
	DepFilter  DepositFilter   `json:"depFilter,omitempty"`
}

// Query dispatches a raw query to the typed readers and returns the result
// as JSON.
func (ctrler *DaoCtrler) Query(bctx *ctrlertypes.BlockContext, qd *QueryData) (json.RawMessage, xerrors.XError) {
	var p queryProposalParams
	if len(qd.Params) > 0 {
		if err := json.Unmarshal(qd.Params, &p); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
	}

	var ret interface{}
	var xerr xerrors.XError
	switch qd.Command {
	case QUERY_CONFIG:
		ret, xerr = ctrler.GetConfig()
	case QUERY_COUNT:
		ret = ctrler.ProposalCount()
	case QUERY_TOKENS:
		ret = ctrler.TokenList()
	case QUERY_PROPOSAL:
		ret, xerr = ctrler.ReadProposal(bctx, p.ID)
	case QUERY_PROPOSALS:
		ret, xerr = ctrler.ReadProposals(bctx, p.Filter, p.StartAfter, p.Limit, p.Desc)
	case QUERY_VOTE:
		ret, xerr = ctrler.ReadVote(p.ID, p.Voter)
	case QUERY_VOTES:
		ret, xerr = ctrler.ReadVotes(p.ID, p.Voter, p.Limit, p.Desc)
	case QUERY_DEPOSIT:
		ret, xerr = ctrler.ReadDeposit(p.ID, p.Depositor)
	case QUERY_DEPOSITS:
		ret, xerr = ctrler.ReadDeposits(p.DepFilter, p.StartKey, p.Limit, p.Desc)
	default:
		return nil, xerrors.ErrInvalidQueryCmd.Wrapf("command:%s", qd.Command)
	}
	if xerr != nil {
		return nil, xerr
	}

	bz, err := json.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
