package types

import (
	"github.com/holiman/uint256"

	"github.com/ion-dao/ion-go/types/xerrors"
)

// decFactor is the fixed-point precision of Dec: 1e18 == 100%.
// Threshold arithmetic multiplies by this factor and integer-divides with
// round-up, so a fraction can never under-round a required vote count.
var decFactor = uint256.NewInt(1_000_000_000_000_000_000)

// Dec is a non-negative fixed-point fraction with 18 decimal places.
type Dec struct {
	v *uint256.Int
}

func ZeroDec() Dec {
	return Dec{v: uint256.NewInt(0)}
}

func OneDec() Dec {
	return Dec{v: new(uint256.Int).Set(decFactor)}
}

func DecPercent(p uint64) Dec {
	v := uint256.NewInt(p)
	v.Mul(v, uint256.NewInt(10_000_000_000_000_000))
	return Dec{v: v}
}

func DecPermille(m uint64) Dec {
	v := uint256.NewInt(m)
	v.Mul(v, uint256.NewInt(1_000_000_000_000_000))
	return Dec{v: v}
}

// DecRatio returns num/den as a Dec. It truncates beyond 18 decimals.
func DecRatio(num, den uint64) Dec {
	v := uint256.NewInt(num)
	v.Mul(v, decFactor)
	v.Div(v, uint256.NewInt(den))
	return Dec{v: v}
}

func (d Dec) IsNil() bool {
	return d.v == nil
}

func (d Dec) IsZero() bool {
	return d.v == nil || d.v.IsZero()
}

func (d Dec) GTOne() bool {
	return d.v != nil && d.v.Gt(decFactor)
}

func (d Dec) Clone() Dec {
	if d.v == nil {
		return ZeroDec()
	}
	return Dec{v: new(uint256.Int).Set(d.v)}
}

func (d Dec) Equal(o Dec) bool {
	if d.v == nil || o.v == nil {
		return d.IsZero() && o.IsZero()
	}
	return d.v.Eq(o.v)
}

func (d Dec) String() string {
	if d.v == nil {
		return "0"
	}
	return d.v.Dec()
}

// MulWeightCeil applies the fraction to a weight, rounding up:
// ceil(d * weight). Overflow is fatal.
func (d Dec) MulWeightCeil(weight *uint256.Int) (*uint256.Int, xerrors.XError) {
	if d.v == nil {
		return uint256.NewInt(0), nil
	}
	applied, over := new(uint256.Int).MulOverflow(d.v, weight)
	if over {
		return nil, xerrors.ErrOverflow.Wrapf("votes needed: %s * %s", d.v.Dec(), weight.Dec())
	}
	rem := new(uint256.Int)
	quo := new(uint256.Int)
	quo.DivMod(applied, decFactor, rem)
	if !rem.IsZero() {
		quo.AddUint64(quo, 1)
	}
	return quo, nil
}

func (d Dec) MarshalJSON() ([]byte, error) {
	s := d.String()
	jbz := make([]byte, len(s)+2)
	jbz[0] = '"'
	copy(jbz[1:], s)
	jbz[len(jbz)-1] = '"'
	return jbz, nil
}

func (d *Dec) UnmarshalJSON(bz []byte) error {
	if len(bz) < 2 || bz[0] != '"' || bz[len(bz)-1] != '"' {
		return xerrors.NewOrdinary("invalid dec string")
	}
	v, err := uint256.FromDecimal(string(bz[1 : len(bz)-1]))
	if err != nil {
		return err
	}
	d.v = v
	return nil
}

// ValidDec asserts that 0 < d <= 1.
func ValidDec(d Dec) xerrors.XError {
	if d.IsZero() {
		return xerrors.ErrZeroThreshold
	}
	if d.GTOne() {
		return xerrors.ErrUnreachableThreshold
	}
	return nil
}
