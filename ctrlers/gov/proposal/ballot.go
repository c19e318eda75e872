package proposal

import (
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Ballot is one voter's recorded choice on one proposal. A re-vote
// replaces the ballot; the weight stays the snapshot taken at activation.
type Ballot struct {
	ProposalID uint64        `json:"proposalId"`
	Voter      types.Address `json:"voter"`
	Option     VoteOption    `json:"option"`
	Weight     *uint256.Int  `json:"weight"`
}

func NewBallot(propID uint64, voter types.Address, opt VoteOption, weight *uint256.Int) *Ballot {
	return &Ballot{
		ProposalID: propID,
		Voter:      voter,
		Option:     opt,
		Weight:     new(uint256.Int).Set(weight),
	}
}

// BallotLedgerKey is proposal id (8 bytes, big endian) then voter address,
// so one proposal's ballots form a contiguous key range.
func BallotLedgerKey(propID uint64, voter types.Address) ledger.LedgerKey {
	return ledger.ToLedgerKeyOf(ledger.U64ToBytes(propID), voter)
}

func (b *Ballot) Key() ledger.LedgerKey {
	return BallotLedgerKey(b.ProposalID, b.Voter)
}

func (b *Ballot) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(b); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (b *Ballot) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, b); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Ballot)(nil)
