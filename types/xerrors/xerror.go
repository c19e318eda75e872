package xerrors

import (
	"errors"
	"fmt"
)

const (
	ErrCodeSuccess uint32 = iota
	ErrCodeGeneric
	ErrCodeCommit
	ErrCodeNotFoundResult
	ErrCodeNotFoundProposal
	ErrCodeNotFoundBallot
	ErrCodeNotFoundDeposit
	ErrCodeUnauthorized
	ErrCodeLackOfStakes
	ErrCodeInvalidProposalStatus
	ErrCodeExpired
	ErrCodeNotExpired
	ErrCodePaused
	ErrCodeZeroThreshold
	ErrCodeUnreachableThreshold
	ErrCodeInvalidPeriod
	ErrCodeDepositTooSmall
	ErrCodeOversizedRequest
	ErrCodeDepositNotClaimable
	ErrCodeDepositAlreadyClaimed
	ErrCodeOverflow
	ErrCodeNotFoundStake
	ErrCodeTooManyClaims
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
)

var (
	ErrCommit = NewWith(ErrCodeCommit, "commit failed")

	// not found
	ErrNotFoundResult   = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrNotFoundProposal = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrNotFoundBallot   = NewWith(ErrCodeNotFoundBallot, "not found ballot")
	ErrNotFoundDeposit  = NewWith(ErrCodeNotFoundDeposit, "not found deposit")
	ErrNotFoundStake    = NewWith(ErrCodeNotFoundStake, "not found stake")

	// authorization
	ErrUnauthorized = NewWith(ErrCodeUnauthorized, "unauthorized")
	ErrLackOfStakes = NewWith(ErrCodeLackOfStakes, "total staked amount is too low")

	// transitions
	ErrInvalidProposalStatus = NewWith(ErrCodeInvalidProposalStatus, "invalid proposal status")

	// temporal
	ErrExpired    = NewWith(ErrCodeExpired, "already expired")
	ErrNotExpired = NewWith(ErrCodeNotExpired, "not expired yet")
	ErrPaused     = NewWith(ErrCodePaused, "dao is paused")

	// validation
	ErrZeroThreshold        = NewWith(ErrCodeZeroThreshold, "required threshold cannot be zero")
	ErrUnreachableThreshold = NewWith(ErrCodeUnreachableThreshold, "not possible to reach required threshold")
	ErrInvalidPeriod        = NewWith(ErrCodeInvalidPeriod, "invalid voting / deposit period")
	ErrDepositTooSmall      = NewWith(ErrCodeDepositTooSmall, "deposit amount is below the minimum")
	ErrOversizedRequest     = NewWith(ErrCodeOversizedRequest, "request size is above limit")

	// deposit claims
	ErrDepositNotClaimable   = NewWith(ErrCodeDepositNotClaimable, "deposit not claimable")
	ErrDepositAlreadyClaimed = NewWith(ErrCodeDepositAlreadyClaimed, "deposit already claimed")
	ErrTooManyClaims         = NewWith(ErrCodeTooManyClaims, "too many outstanding claims")

	// arithmetic
	ErrOverflow = NewWith(ErrCodeOverflow, "overflow occurs")

	// query
	ErrQuery              = NewWith(ErrCodeQuery, "query failed")
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(string, ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func NewOrdinary(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}

// Equal reports whether two errors carry the same code.
// Sentinel errors compare equal to their Wrap/Wrapf results.
func Equal(e1, e2 error) bool {
	var x1, x2 XError
	if !errors.As(e1, &x1) || !errors.As(e2, &x2) {
		return errors.Is(e1, e2)
	}
	return x1.Code() == x2.Code()
}
