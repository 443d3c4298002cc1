package protocolversion

import (
	"errors"
	"fmt"

	"github.com/driveabci/blockstate/model/platform"
)

// ErrorCode identifies a recoverable validation error. A transaction or vote
// failing with one of these is rejected; the enclosing block goes on.
type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

// FailureCode identifies a fatal inconsistency. Execution of the current block
// must abort.
type FailureCode uint16

func (fc FailureCode) String() string {
	return fmt.Sprintf("[Failure Code: %d]", fc)
}

const (
	ErrCodeUnsupportedProtocolVersion  ErrorCode = 1090
	ErrCodeIncompatibleProtocolVersion ErrorCode = 1091
)

const (
	FailureCodeCompatibilityUndefined FailureCode = 2050
	FailureCodeVoteCountUnderflow     FailureCode = 2051
	FailureCodeVoteCountOverflow      FailureCode = 2052
)

// CodedError is a recoverable policy rejection.
type CodedError interface {
	Code() ErrorCode
	error
}

// Failure is a fatal invariant violation.
type Failure interface {
	FailureCode() FailureCode
	error
}

// UnsupportedVersionError indicates a proposed version above the latest
// version this node knows about.
type UnsupportedVersionError struct {
	Proposed    platform.Version
	LatestKnown platform.Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s protocol version %d is not supported, latest known version is %d",
		e.Code(), e.Proposed, e.LatestKnown)
}

func (e *UnsupportedVersionError) Code() ErrorCode {
	return ErrCodeUnsupportedProtocolVersion
}

// IncompatibleVersionError indicates a proposed version that is too old to be
// compatible with the current one, or vice versa.
type IncompatibleVersionError struct {
	Proposed      platform.Version
	MinCompatible platform.Version
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("%s protocol version %d is not compatible, minimal compatible version is %d",
		e.Code(), e.Proposed, e.MinCompatible)
}

func (e *IncompatibleVersionError) Code() ErrorCode {
	return ErrCodeIncompatibleProtocolVersion
}

// CompatibilityUndefinedFailure indicates the compatibility map has no entry
// for a version at or below the latest known version. The map is required to
// be complete, so this is a configuration defect.
type CompatibilityUndefinedFailure struct {
	Version platform.Version
}

func (e *CompatibilityUndefinedFailure) Error() string {
	return fmt.Sprintf("%s compatible protocol version is not defined for version %d",
		e.FailureCode(), e.Version)
}

func (e *CompatibilityUndefinedFailure) FailureCode() FailureCode {
	return FailureCodeCompatibilityUndefined
}

// VoteCountUnderflowFailure indicates an attempt to lower the count of a
// version that is absent or already zero: the in-memory tally has drifted
// from the persisted validator votes.
type VoteCountUnderflowFailure struct {
	Version platform.Version
	Present bool
}

func (e *VoteCountUnderflowFailure) Error() string {
	if !e.Present {
		return fmt.Sprintf("%s trying to lower the count of version %d that is not in the tally",
			e.FailureCode(), e.Version)
	}
	return fmt.Sprintf("%s trying to lower the count of version %d that is already at 0",
		e.FailureCode(), e.Version)
}

func (e *VoteCountUnderflowFailure) FailureCode() FailureCode {
	return FailureCodeVoteCountUnderflow
}

// VoteCountOverflowFailure indicates an attempt to raise a count that is
// already at its maximum.
type VoteCountOverflowFailure struct {
	Version platform.Version
}

func (e *VoteCountOverflowFailure) Error() string {
	return fmt.Sprintf("%s trying to raise the count of version %d that is already at max",
		e.FailureCode(), e.Version)
}

func (e *VoteCountOverflowFailure) FailureCode() FailureCode {
	return FailureCodeVoteCountOverflow
}

// IsFailure returns true if err is, or wraps, a fatal invariant violation.
func IsFailure(err error) bool {
	var failure Failure
	return errors.As(err, &failure)
}

// IsRejection returns true if err is, or wraps, a recoverable policy rejection.
func IsRejection(err error) bool {
	var coded CodedError
	return errors.As(err, &coded)
}

// HasErrorCode returns true if err is, or wraps, a CodedError with the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	var coded CodedError
	return errors.As(err, &coded) && coded.Code() == code
}

// HasFailureCode returns true if err is, or wraps, a Failure with the given code.
func HasFailureCode(err error, code FailureCode) bool {
	var failure Failure
	return errors.As(err, &failure) && failure.FailureCode() == code
}
