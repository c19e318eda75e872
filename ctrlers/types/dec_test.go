package types

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ion-dao/ion-go/types/xerrors"
)

func TestMulWeightCeil(t *testing.T) {
	cases := []struct {
		frac   Dec
		weight uint64
		want   uint64
	}{
		{DecPermille(333), 3, 1},  // ceil(0.999)
		{DecPermille(334), 3, 2},  // ceil(1.002)
		{DecPercent(50), 34, 17},  // exact
		{DecPercent(50), 35, 18},  // ceil(17.5)
		{DecRatio(1, 3), 3, 1},    // ceil under truncated ratio
		{DecRatio(2, 3), 100, 67}, // ceil(66.66..)
		{OneDec(), 42, 42},
		{DecPercent(50), 0, 0},
	}
	for _, c := range cases {
		got, xerr := c.frac.MulWeightCeil(uint256.NewInt(c.weight))
		require.NoError(t, xerr)
		require.Equal(t, c.want, got.Uint64(), "frac:%s weight:%d", c.frac, c.weight)
	}
}

func TestValidDec(t *testing.T) {
	require.NoError(t, ValidDec(DecPercent(1)))
	require.NoError(t, ValidDec(OneDec()))

	xerr := ValidDec(ZeroDec())
	require.True(t, xerrors.Equal(xerr, xerrors.ErrZeroThreshold))

	xerr = ValidDec(DecPercent(101))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrUnreachableThreshold))

	xerr = ValidDec(Dec{})
	require.True(t, xerrors.Equal(xerr, xerrors.ErrZeroThreshold))
}

func TestDecJSON(t *testing.T) {
	d := DecPercent(33)
	bz, err := json.Marshal(d)
	require.NoError(t, err)

	var d2 Dec
	require.NoError(t, json.Unmarshal(bz, &d2))
	require.True(t, d.Equal(d2))
}

func TestThresholdValidate(t *testing.T) {
	th := DefaultThreshold()
	require.NoError(t, th.Validate())

	th.Quorum = ZeroDec()
	require.Error(t, th.Validate())

	th = DefaultThreshold()
	th.VetoThreshold = DecPercent(200)
	require.Error(t, th.Validate())
}
