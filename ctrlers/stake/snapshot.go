package stake

import (
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// StakeSnapshot records one address's staked balance as of a height.
// Snapshots are append-only; the balance at any height is the last
// snapshot at or before it.
type StakeSnapshot struct {
	Owner  types.Address `json:"owner"`
	Height int64         `json:"height"`
	Amount *uint256.Int  `json:"amount"`
}

func StakeSnapshotKey(owner types.Address, height int64) ledger.LedgerKey {
	return ledger.ToLedgerKeyOf(owner, ledger.U64ToBytes(uint64(height)))
}

func (s *StakeSnapshot) Key() ledger.LedgerKey {
	return StakeSnapshotKey(s.Owner, s.Height)
}

func (s *StakeSnapshot) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *StakeSnapshot) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*StakeSnapshot)(nil)

// TotalSnapshot records the pool-wide figures as of a height. Staked is
// the sum of all bonded stakes; Supply additionally counts amounts still
// unbonding.
type TotalSnapshot struct {
	Height int64        `json:"height"`
	Staked *uint256.Int `json:"staked"`
	Supply *uint256.Int `json:"supply"`
}

func TotalSnapshotKey(height int64) ledger.LedgerKey {
	return ledger.ToLedgerKey(ledger.U64ToBytes(uint64(height)))
}

func (s *TotalSnapshot) Key() ledger.LedgerKey {
	return TotalSnapshotKey(s.Height)
}

func (s *TotalSnapshot) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *TotalSnapshot) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*TotalSnapshot)(nil)

// UnbondingClaim is one pending withdrawal created by Unstake.
type UnbondingClaim struct {
	Amount    *uint256.Int           `json:"amount"`
	ReleaseAt ctrlertypes.Expiration `json:"releaseAt"`
}

// UnbondingClaims is the per-address claim list, bounded by MAX_CLAIMS.
type UnbondingClaims struct {
	Owner  types.Address    `json:"owner"`
	Claims []UnbondingClaim `json:"claims"`
}

func UnbondingClaimsKey(owner types.Address) ledger.LedgerKey {
	return ledger.ToLedgerKey(owner)
}

func (c *UnbondingClaims) Key() ledger.LedgerKey {
	return UnbondingClaimsKey(c.Owner)
}

func (c *UnbondingClaims) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(c); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (c *UnbondingClaims) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, c); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*UnbondingClaims)(nil)
