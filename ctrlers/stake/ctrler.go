package stake

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/log"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

const (
	ledgerCacheSize = 2048

	// MAX_CLAIMS bounds the outstanding unbonding claims per address.
	MAX_CLAIMS = 10
)

// StakeCtrler keeps the staking pool as height-keyed snapshots, so that
// any past voting power distribution can be answered deterministically.
// It is the IStakeHandler the governance controller consults.
type StakeCtrler struct {
	unbonding ctrlertypes.Duration

	stakeLedger ledger.ILedger[*StakeSnapshot]
	totalLedger ledger.ILedger[*TotalSnapshot]
	claimLedger ledger.ILedger[*UnbondingClaims]

	logger log.Logger
	mtx    sync.RWMutex
}

func NewStakeCtrler(dbDir string, unbonding ctrlertypes.Duration, logger log.Logger) (*StakeCtrler, xerrors.XError) {
	if !(unbonding.Blocks == 0 && unbonding.Seconds == 0) {
		if xerr := unbonding.Validate(); xerr != nil {
			return nil, xerr
		}
	}

	stakeLedger, xerr := ledger.NewSimpleLedger[*StakeSnapshot]("stake", dbDir, ledgerCacheSize, func() *StakeSnapshot { return &StakeSnapshot{} })
	if xerr != nil {
		return nil, xerr
	}
	totalLedger, xerr := ledger.NewSimpleLedger[*TotalSnapshot]("stake_total", dbDir, ledgerCacheSize, func() *TotalSnapshot { return &TotalSnapshot{} })
	if xerr != nil {
		return nil, xerr
	}
	claimLedger, xerr := ledger.NewSimpleLedger[*UnbondingClaims]("stake_claim", dbDir, ledgerCacheSize, func() *UnbondingClaims { return &UnbondingClaims{} })
	if xerr != nil {
		return nil, xerr
	}

	return &StakeCtrler{
		unbonding:   unbonding,
		stakeLedger: stakeLedger,
		totalLedger: totalLedger,
		claimLedger: claimLedger,
		logger:      logger.With("module", "ion_StakeCtrler"),
	}, nil
}

func (ctrler *StakeCtrler) hasUnbonding() bool {
	return ctrler.unbonding.Blocks > 0 || ctrler.unbonding.Seconds > 0
}

// stakedPowerOf is the balance of addr at height: the staged snapshot of
// the exact height when one exists, otherwise the last committed snapshot
// at or before height.
func (ctrler *StakeCtrler) stakedPowerOf(addr types.Address, height int64) (*uint256.Int, xerrors.XError) {
	if s, xerr := ctrler.stakeLedger.Get(StakeSnapshotKey(addr, height)); xerr == nil {
		return new(uint256.Int).Set(s.Amount), nil
	} else if !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
		return nil, xerr
	}

	start := append([]byte(nil), addr...)
	end := append(append([]byte(nil), addr...), ledger.U64ToBytes(uint64(height)+1)...)
	var found *uint256.Int
	if xerr := ctrler.stakeLedger.IterateRange(start, end, false, func(s *StakeSnapshot) xerrors.XError {
		found = new(uint256.Int).Set(s.Amount)
		return ledger.ErrStopIterate
	}); xerr != nil {
		return nil, xerr
	}
	if found == nil {
		found = uint256.NewInt(0)
	}
	return found, nil
}

func (ctrler *StakeCtrler) totalOf(height int64) (*TotalSnapshot, xerrors.XError) {
	if t, xerr := ctrler.totalLedger.Get(TotalSnapshotKey(height)); xerr == nil {
		return t, nil
	} else if !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
		return nil, xerr
	}

	end := ledger.U64ToBytes(uint64(height) + 1)
	var found *TotalSnapshot
	if xerr := ctrler.totalLedger.IterateRange(nil, end, false, func(t *TotalSnapshot) xerrors.XError {
		found = t
		return ledger.ErrStopIterate
	}); xerr != nil {
		return nil, xerr
	}
	if found == nil {
		found = &TotalSnapshot{Height: height, Staked: uint256.NewInt(0), Supply: uint256.NewInt(0)}
	}
	return found, nil
}

// Stake bonds amount for sender as of the current block.
func (ctrler *StakeCtrler) Stake(bctx *ctrlertypes.BlockContext, sender types.Address, amount *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if amount == nil || amount.IsZero() {
		return xerrors.NewOrdinary("zero stake amount")
	}

	cur, xerr := ctrler.stakedPowerOf(sender, bctx.Height)
	if xerr != nil {
		return xerr
	}
	newAmt, over := new(uint256.Int).AddOverflow(cur, amount)
	if over {
		return xerrors.ErrOverflow.Wrapf("stake of %v overflows", sender)
	}

	tot, xerr := ctrler.totalOf(bctx.Height)
	if xerr != nil {
		return xerr
	}
	staked, over := new(uint256.Int).AddOverflow(tot.Staked, amount)
	if over {
		return xerrors.ErrOverflow.Wrapf("total staked overflows")
	}
	supply, over := new(uint256.Int).AddOverflow(tot.Supply, amount)
	if over {
		return xerrors.ErrOverflow.Wrapf("total supply overflows")
	}

	if xerr := ctrler.stakeLedger.Set(&StakeSnapshot{Owner: sender, Height: bctx.Height, Amount: newAmt}); xerr != nil {
		return xerr
	}
	if xerr := ctrler.totalLedger.Set(&TotalSnapshot{Height: bctx.Height, Staked: staked, Supply: supply}); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("staked", "owner", sender, "amount", amount.Dec(), "balance", newAmt.Dec())
	return nil
}

// Unstake unbonds amount. With an unbonding period configured the funds
// become a timed claim; otherwise they are paid out immediately.
func (ctrler *StakeCtrler) Unstake(bctx *ctrlertypes.BlockContext, sender types.Address, amount *uint256.Int) ([]ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if amount == nil || amount.IsZero() {
		return nil, xerrors.NewOrdinary("zero unstake amount")
	}

	cur, xerr := ctrler.stakedPowerOf(sender, bctx.Height)
	if xerr != nil {
		return nil, xerr
	}
	if cur.Lt(amount) {
		return nil, xerrors.ErrLackOfStakes.Wrapf("staked:%v, unstake:%v", cur.Dec(), amount.Dec())
	}

	// resolve the claim slot before staging any write, so a refused
	// unstake leaves no partial state behind
	var claims *UnbondingClaims
	if ctrler.hasUnbonding() {
		var xerr xerrors.XError
		claims, xerr = ctrler.claimLedger.Get(UnbondingClaimsKey(sender))
		if xerr != nil {
			if !xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
				return nil, xerr
			}
			claims = &UnbondingClaims{Owner: sender}
		}
		if len(claims.Claims) >= MAX_CLAIMS {
			return nil, xerrors.ErrTooManyClaims.Wrapf("claims:%d, max:%d", len(claims.Claims), MAX_CLAIMS)
		}
	}

	tot, xerr := ctrler.totalOf(bctx.Height)
	if xerr != nil {
		return nil, xerr
	}
	staked := new(uint256.Int).Sub(tot.Staked, amount)
	supply := new(uint256.Int).Set(tot.Supply)

	newAmt := new(uint256.Int).Sub(cur, amount)
	if xerr := ctrler.stakeLedger.Set(&StakeSnapshot{Owner: sender, Height: bctx.Height, Amount: newAmt}); xerr != nil {
		return nil, xerr
	}

	var msgs []ctrlertypes.TransferMsg
	if claims != nil {
		claims.Claims = append(claims.Claims, UnbondingClaim{
			Amount:    new(uint256.Int).Set(amount),
			ReleaseAt: ctrler.unbonding.After(bctx.BlockTime),
		})
		if xerr := ctrler.claimLedger.Set(claims); xerr != nil {
			return nil, xerr
		}
	} else {
		supply.Sub(supply, amount)
		msgs = append(msgs, ctrlertypes.NewTransferMsg(sender, amount))
	}

	if xerr := ctrler.totalLedger.Set(&TotalSnapshot{Height: bctx.Height, Staked: staked, Supply: supply}); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Debug("unstaked", "owner", sender, "amount", amount.Dec(), "balance", newAmt.Dec())
	return msgs, nil
}

// Claim pays out every matured unbonding claim of sender.
func (ctrler *StakeCtrler) Claim(bctx *ctrlertypes.BlockContext, sender types.Address) (*uint256.Int, []ctrlertypes.TransferMsg, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	claims, xerr := ctrler.claimLedger.Get(UnbondingClaimsKey(sender))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, nil, xerrors.ErrNotFoundStake.Wrapf("no claims of %v", sender)
		}
		return nil, nil, xerr
	}

	matured := uint256.NewInt(0)
	var remain []UnbondingClaim
	for _, c := range claims.Claims {
		if c.ReleaseAt.IsExpired(bctx.BlockTime) {
			matured.Add(matured, c.Amount)
		} else {
			remain = append(remain, c)
		}
	}
	if matured.IsZero() {
		return nil, nil, xerrors.ErrNotExpired.Wrapf("no matured claims of %v", sender)
	}

	tot, xerr := ctrler.totalOf(bctx.Height)
	if xerr != nil {
		return nil, nil, xerr
	}

	if len(remain) == 0 {
		if _, xerr := ctrler.claimLedger.Del(claims.Key()); xerr != nil {
			return nil, nil, xerr
		}
	} else {
		claims = &UnbondingClaims{Owner: sender, Claims: remain}
		if xerr := ctrler.claimLedger.Set(claims); xerr != nil {
			return nil, nil, xerr
		}
	}

	supply := new(uint256.Int).Sub(tot.Supply, matured)
	if xerr := ctrler.totalLedger.Set(&TotalSnapshot{Height: bctx.Height, Staked: new(uint256.Int).Set(tot.Staked), Supply: supply}); xerr != nil {
		return nil, nil, xerr
	}

	ctrler.logger.Debug("claims paid", "owner", sender, "amount", matured.Dec())
	return matured, []ctrlertypes.TransferMsg{ctrlertypes.NewTransferMsg(sender, matured)}, nil
}

// ClaimsOf lists sender's outstanding unbonding claims.
func (ctrler *StakeCtrler) ClaimsOf(addr types.Address) ([]UnbondingClaim, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	claims, xerr := ctrler.claimLedger.Read(UnbondingClaimsKey(addr))
	if xerr != nil {
		if xerrors.Equal(xerr, xerrors.ErrNotFoundResult) {
			return nil, nil
		}
		return nil, xerr
	}
	return append([]UnbondingClaim(nil), claims.Claims...), nil
}

func (ctrler *StakeCtrler) StakedPowerAt(addr types.Address, height int64) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.stakedPowerOf(addr, height)
}

func (ctrler *StakeCtrler) TotalStakedAt(height int64) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	tot, xerr := ctrler.totalOf(height)
	if xerr != nil {
		return nil, xerr
	}
	return new(uint256.Int).Set(tot.Staked), nil
}

func (ctrler *StakeCtrler) TotalSupplyAt(height int64) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	tot, xerr := ctrler.totalOf(height)
	if xerr != nil {
		return nil, xerr
	}
	return new(uint256.Int).Set(tot.Supply), nil
}

var _ ctrlertypes.IStakeHandler = (*StakeCtrler)(nil)

func (ctrler *StakeCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ledgers := []ctrlertypes.ILedgerHandler{ctrler.stakeLedger, ctrler.totalLedger, ctrler.claimLedger}
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

func (ctrler *StakeCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ledgers := []ctrlertypes.ILedgerHandler{ctrler.stakeLedger, ctrler.totalLedger, ctrler.claimLedger}
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

var _ ctrlertypes.ILedgerHandler = (*StakeCtrler)(nil)
