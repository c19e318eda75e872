package proposal

import (
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Deposit is one depositor's cumulative stake behind one proposal.
// Claimable turns true when the proposal closes without confiscation;
// Claimed records that the funds already left the module account.
type Deposit struct {
	ProposalID uint64        `json:"proposalId"`
	Depositor  types.Address `json:"depositor"`
	Amount     *uint256.Int  `json:"amount"`
	Claimable  bool          `json:"claimable"`
	Claimed    bool          `json:"claimed"`
}

func NewDeposit(propID uint64, depositor types.Address, amount *uint256.Int) *Deposit {
	return &Deposit{
		ProposalID: propID,
		Depositor:  depositor,
		Amount:     new(uint256.Int).Set(amount),
	}
}

func (d *Deposit) Clone() *Deposit {
	return &Deposit{
		ProposalID: d.ProposalID,
		Depositor:  append(types.Address(nil), d.Depositor...),
		Amount:     new(uint256.Int).Set(d.Amount),
		Claimable:  d.Claimable,
		Claimed:    d.Claimed,
	}
}

// DepositLedgerKey is proposal id (8 bytes, big endian) then depositor
// address, mirroring the ballot key layout.
func DepositLedgerKey(propID uint64, depositor types.Address) ledger.LedgerKey {
	return ledger.ToLedgerKeyOf(ledger.U64ToBytes(propID), depositor)
}

func (d *Deposit) Key() ledger.LedgerKey {
	return DepositLedgerKey(d.ProposalID, d.Depositor)
}

func (d *Deposit) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(d); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (d *Deposit) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, d); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Deposit)(nil)
