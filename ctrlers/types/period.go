package types

import (
	"github.com/ion-dao/ion-go/types/xerrors"
)

// BlockTime is the ledger clock: a block height and its unix time in
// seconds. The engine never consults a wall clock.
type BlockTime struct {
	Height int64 `json:"height"`
	Time   int64 `json:"time"`
}

// Duration is a period expressed either in blocks or in seconds.
// Exactly one of the two must be positive.
type Duration struct {
	Blocks  int64 `json:"blocks,omitempty"`
	Seconds int64 `json:"seconds,omitempty"`
}

func DurationInBlocks(n int64) Duration {
	return Duration{Blocks: n}
}

func DurationInSeconds(n int64) Duration {
	return Duration{Seconds: n}
}

func (d Duration) Validate() xerrors.XError {
	if (d.Blocks > 0) == (d.Seconds > 0) {
		return xerrors.ErrInvalidPeriod.Wrapf("blocks:%v, seconds:%v", d.Blocks, d.Seconds)
	}
	if d.Blocks < 0 || d.Seconds < 0 {
		return xerrors.ErrInvalidPeriod.Wrapf("negative period")
	}
	return nil
}

// Add combines two durations of the same unit. Mixing height- and
// time-based periods is a config error.
func (d Duration) Add(o Duration) (Duration, xerrors.XError) {
	switch {
	case d.Blocks > 0 && o.Blocks > 0:
		return Duration{Blocks: d.Blocks + o.Blocks}, nil
	case d.Seconds > 0 && o.Seconds > 0:
		return Duration{Seconds: d.Seconds + o.Seconds}, nil
	default:
		return Duration{}, xerrors.ErrInvalidPeriod.Wrapf("cannot add %+v and %+v", d, o)
	}
}

// After returns the expiration reached when the duration elapses from bt.
func (d Duration) After(bt BlockTime) Expiration {
	if d.Blocks > 0 {
		return Expiration{AtHeight: bt.Height + d.Blocks}
	}
	return Expiration{AtTime: bt.Time + d.Seconds}
}

// Expiration marks a point of the ledger clock. The zero value never
// expires.
type Expiration struct {
	AtHeight int64 `json:"atHeight,omitempty"`
	AtTime   int64 `json:"atTime,omitempty"`
}

func ExpireAtHeight(h int64) Expiration {
	return Expiration{AtHeight: h}
}

func ExpireAtTime(t int64) Expiration {
	return Expiration{AtTime: t}
}

func (e Expiration) IsZero() bool {
	return e.AtHeight == 0 && e.AtTime == 0
}

func (e Expiration) IsExpired(bt BlockTime) bool {
	if e.AtHeight > 0 {
		return bt.Height >= e.AtHeight
	}
	if e.AtTime > 0 {
		return bt.Time >= e.AtTime
	}
	return false
}
