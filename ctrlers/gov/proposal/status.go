package proposal

import "fmt"

type ProposalStatus int32

// Lifecycle of a proposal. Pending collects deposits, Open collects votes.
// Rejected, Passed and Executed are terminal for voting; only Passed may
// become Executed.
const (
	PROPOSAL_PENDING ProposalStatus = 1 + iota
	PROPOSAL_OPEN
	PROPOSAL_REJECTED
	PROPOSAL_PASSED
	PROPOSAL_EXECUTED
)

func (s ProposalStatus) String() string {
	switch s {
	case PROPOSAL_PENDING:
		return "pending"
	case PROPOSAL_OPEN:
		return "open"
	case PROPOSAL_REJECTED:
		return "rejected"
	case PROPOSAL_PASSED:
		return "passed"
	case PROPOSAL_EXECUTED:
		return "executed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// IsFinal reports whether voting can no longer change the status.
func (s ProposalStatus) IsFinal() bool {
	return s == PROPOSAL_REJECTED || s == PROPOSAL_PASSED || s == PROPOSAL_EXECUTED
}
