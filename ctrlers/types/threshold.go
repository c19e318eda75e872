package types

import (
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Threshold declares the pass requirements of a proposal: the minimum
// fraction of non-abstaining votes that must be Yes, the quorum of total
// eligible weight that must participate at all, and the veto fraction
// sufficient to reject outright.
type Threshold struct {
	Threshold     Dec `json:"threshold"`
	Quorum        Dec `json:"quorum"`
	VetoThreshold Dec `json:"vetoThreshold"`
}

func DefaultThreshold() Threshold {
	return Threshold{
		Threshold:     DecRatio(1, 2),
		Quorum:        DecRatio(1, 3),
		VetoThreshold: DecRatio(1, 3),
	}
}

// Validate asserts that every fraction is in (0, 1].
func (t Threshold) Validate() xerrors.XError {
	if xerr := ValidDec(t.Threshold); xerr != nil {
		return xerr
	}
	if xerr := ValidDec(t.Quorum); xerr != nil {
		return xerr
	}
	return ValidDec(t.VetoThreshold)
}

func (t Threshold) Clone() Threshold {
	return Threshold{
		Threshold:     t.Threshold.Clone(),
		Quorum:        t.Quorum.Clone(),
		VetoThreshold: t.VetoThreshold.Clone(),
	}
}
