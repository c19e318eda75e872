package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ion-dao/ion-go/types/xerrors"
)

func TestDurationValidate(t *testing.T) {
	require.NoError(t, DurationInBlocks(10).Validate())
	require.NoError(t, DurationInSeconds(3600).Validate())

	require.Error(t, Duration{}.Validate())
	require.Error(t, Duration{Blocks: 10, Seconds: 3600}.Validate())
}

func TestDurationAdd(t *testing.T) {
	d, xerr := DurationInBlocks(10).Add(DurationInBlocks(5))
	require.NoError(t, xerr)
	require.Equal(t, int64(15), d.Blocks)

	d, xerr = DurationInSeconds(60).Add(DurationInSeconds(40))
	require.NoError(t, xerr)
	require.Equal(t, int64(100), d.Seconds)

	_, xerr = DurationInBlocks(10).Add(DurationInSeconds(60))
	require.True(t, xerrors.Equal(xerr, xerrors.ErrInvalidPeriod))
}

func TestExpiration(t *testing.T) {
	bt := BlockTime{Height: 100, Time: 1_000}

	e := DurationInBlocks(10).After(bt)
	require.False(t, e.IsExpired(BlockTime{Height: 109}))
	require.True(t, e.IsExpired(BlockTime{Height: 110})) // boundary counts as expired
	require.True(t, e.IsExpired(BlockTime{Height: 111}))

	e = DurationInSeconds(60).After(bt)
	require.False(t, e.IsExpired(BlockTime{Time: 1_059}))
	require.True(t, e.IsExpired(BlockTime{Time: 1_060}))

	require.True(t, Expiration{}.IsZero())
	require.False(t, Expiration{}.IsExpired(BlockTime{Height: 1 << 40}))
}
