package types

import (
	tmjson "github.com/tendermint/tendermint/libs/json"

	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	abytes "github.com/ion-dao/ion-go/types/bytes"
	"github.com/ion-dao/ion-go/types/xerrors"
)

const (
	TokenTypeNative = "native"
	TokenTypeCW20   = "cw20"
)

// TreasuryToken names a token the organization treasury tracks.
type TreasuryToken struct {
	Type  string `json:"type"`
	Denom string `json:"denom"`
}

// DaoState is the singleton root record of the organization: the live
// config, the monotonic proposal counter, the pause switch and the
// treasury token list.
type DaoState struct {
	Config          DaoConfig       `json:"config"`
	ProposalCount   uint64          `json:"proposalCount"`
	PausedUntil     Expiration      `json:"pausedUntil"`
	GovDenom        string          `json:"govDenom"`
	StakingContract types.Address   `json:"stakingContract"`
	TreasuryTokens  []TreasuryToken `json:"treasuryTokens"`
}

func (s *DaoState) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (s *DaoState) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *DaoState) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*DaoState)(nil)

func (s *DaoState) IsPaused(bt BlockTime) bool {
	return !s.PausedUntil.IsZero() && !s.PausedUntil.IsExpired(bt)
}

func (s *DaoState) HasToken(t TreasuryToken) bool {
	for _, t0 := range s.TreasuryTokens {
		if t0 == t {
			return true
		}
	}
	return false
}

func (s *DaoState) AddToken(t TreasuryToken) {
	if !s.HasToken(t) {
		s.TreasuryTokens = append(s.TreasuryTokens, t)
	}
}

func (s *DaoState) RemoveToken(t TreasuryToken) {
	for i, t0 := range s.TreasuryTokens {
		if t0 == t {
			s.TreasuryTokens = append(s.TreasuryTokens[:i], s.TreasuryTokens[i+1:]...)
			return
		}
	}
}
