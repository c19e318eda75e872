package types

import (
	"github.com/holiman/uint256"

	"github.com/ion-dao/ion-go/types/xerrors"
)

// DaoConfig is the organization-wide governance configuration. It is a
// singleton; in-flight proposals keep the frozen copy captured at their
// activation and are not affected by config updates.
type DaoConfig struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Threshold   Threshold `json:"threshold"`

	VotingPeriod  Duration `json:"votingPeriod"`
	DepositPeriod Duration `json:"depositPeriod"`

	// ProposalDeposit is required to activate voting;
	// ProposalMinDeposit is the least amount accepted on submission.
	ProposalDeposit    *uint256.Int `json:"proposalDeposit"`
	ProposalMinDeposit *uint256.Int `json:"proposalMinDeposit"`
}

func (c *DaoConfig) Validate() xerrors.XError {
	if xerr := c.Threshold.Validate(); xerr != nil {
		return xerr
	}
	if xerr := c.VotingPeriod.Validate(); xerr != nil {
		return xerr
	}
	if xerr := c.DepositPeriod.Validate(); xerr != nil {
		return xerr
	}
	// the maximum voting end must be computable at submission
	if _, xerr := c.DepositPeriod.Add(c.VotingPeriod); xerr != nil {
		return xerr
	}
	if c.ProposalDeposit == nil || c.ProposalMinDeposit == nil {
		return xerrors.NewOrdinary("nil deposit amount in config")
	}
	return nil
}

func (c *DaoConfig) Clone() DaoConfig {
	return DaoConfig{
		Name:               c.Name,
		Description:        c.Description,
		Threshold:          c.Threshold.Clone(),
		VotingPeriod:       c.VotingPeriod,
		DepositPeriod:      c.DepositPeriod,
		ProposalDeposit:    new(uint256.Int).Set(c.ProposalDeposit),
		ProposalMinDeposit: new(uint256.Int).Set(c.ProposalMinDeposit),
	}
}
