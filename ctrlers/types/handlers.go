package types

import (
	"github.com/holiman/uint256"

	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// IStakeHandler supplies voting power snapshots. All three queries are
// answered as of a past block height so that proposals opened at height h
// tally against the distribution frozen at h.
type IStakeHandler interface {
	StakedPowerAt(addr types.Address, height int64) (*uint256.Int, xerrors.XError)
	TotalStakedAt(height int64) (*uint256.Int, xerrors.XError)
	TotalSupplyAt(height int64) (*uint256.Int, xerrors.XError)
}

type ILedgerHandler interface {
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}
