package gov

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

type stakeHandlerMock struct {
	powers map[string]*uint256.Int
	total  *uint256.Int
	supply *uint256.Int
	err    xerrors.XError // returned by every lookup when set
}

func newStakeHandlerMock() *stakeHandlerMock {
	return &stakeHandlerMock{
		powers: make(map[string]*uint256.Int),
		total:  uint256.NewInt(0),
		supply: uint256.NewInt(0),
	}
}

func (m *stakeHandlerMock) setPower(addr types.Address, power uint64) {
	m.powers[addr.String()] = uint256.NewInt(power)
	m.total = uint256.NewInt(0)
	for _, p := range m.powers {
		m.total.Add(m.total, p)
	}
	m.supply = new(uint256.Int).Set(m.total)
}

func (m *stakeHandlerMock) StakedPowerAt(addr types.Address, height int64) (*uint256.Int, xerrors.XError) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.powers[addr.String()]; ok {
		return new(uint256.Int).Set(p), nil
	}
	return uint256.NewInt(0), nil
}

func (m *stakeHandlerMock) TotalStakedAt(height int64) (*uint256.Int, xerrors.XError) {
	if m.err != nil {
		return nil, m.err
	}
	return new(uint256.Int).Set(m.total), nil
}

func (m *stakeHandlerMock) TotalSupplyAt(height int64) (*uint256.Int, xerrors.XError) {
	if m.err != nil {
		return nil, m.err
	}
	return new(uint256.Int).Set(m.supply), nil
}

var _ ctrlertypes.IStakeHandler = (*stakeHandlerMock)(nil)

func defaultConfig() ctrlertypes.DaoConfig {
	return ctrlertypes.DaoConfig{
		Name:        "testers",
		Description: "a dao for tests",
		Threshold: ctrlertypes.Threshold{
			Threshold:     ctrlertypes.DecPercent(50),
			Quorum:        ctrlertypes.DecPercent(40),
			VetoThreshold: ctrlertypes.DecPercent(33),
		},
		VotingPeriod:       ctrlertypes.DurationInBlocks(10),
		DepositPeriod:      ctrlertypes.DurationInBlocks(10),
		ProposalDeposit:    uint256.NewInt(100),
		ProposalMinDeposit: uint256.NewInt(10),
	}
}

type testEnv struct {
	ctrler  *DaoCtrler
	mock    *stakeHandlerMock
	daoAddr types.Address
}

func newTestEnv(t *testing.T) *testEnv {
	mock := newStakeHandlerMock()
	daoAddr := types.RandAddress()

	ctrler, xerr := NewDaoCtrler(t.TempDir(), daoAddr, mock, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ctrler.Close() })

	require.NoError(t, ctrler.InitLedger(&GenesisDaoState{
		Config:          defaultConfig(),
		GovDenom:        "uion",
		StakingContract: types.RandAddress(),
	}))
	env := &testEnv{ctrler: ctrler, mock: mock, daoAddr: daoAddr}
	env.commit(t)
	return env
}

func (env *testEnv) commit(t *testing.T) {
	_, _, xerr := env.ctrler.Commit()
	require.NoError(t, xerr)
}

func bctx(height int64) *ctrlertypes.BlockContext {
	return ctrlertypes.NewBlockContext(height, 0)
}

func payload(title string) *ProposePayload {
	return &ProposePayload{Title: title, Description: "about " + title}
}

// propose at height, funded with paid, then commit.
func (env *testEnv) propose(t *testing.T, height int64, proposer types.Address, paid uint64) uint64 {
	id, _, xerr := env.ctrler.Propose(bctx(height), proposer, payload("prop"), uint256.NewInt(paid))
	require.NoError(t, xerr)
	env.commit(t)
	return id
}
