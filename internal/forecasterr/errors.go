// Package forecasterr defines the error kinds from spec §7: ConfigInvalid,
// MissingData, NumericOutOfRange, InconsistentHistory, and WarningOnly.
// Numeric helpers never raise (callers precondition-check inputs);
// loaders return success/failure at the call site; a day's analysis never
// throws across the worker-pool boundary — partial results are still
// written. Fatal kinds terminate the process with a nonzero exit code.
package forecasterr

import (
	"errors"
	"fmt"
)

// Kind classifies an error per spec §7.
type Kind int

const (
	// ConfigInvalid: missing required field, malformed date or number,
	// unknown feed identifier. Reported at load time; pipeline does not
	// start.
	ConfigInvalid Kind = iota
	// MissingData: a race has no polls, no assumed margin, no rating,
	// and no presumed winner/incumbent party. Fatal for House races;
	// skipped or default-estimated elsewhere (spec §4.4).
	MissingData
	// NumericOutOfRange: the metamargin solver exceeded ±101.0 bias.
	// Indicates a modelling bug, not recoverable.
	NumericOutOfRange
	// InconsistentHistory: a saved history's election day differs from
	// the campaign's election day. Fatal at import.
	InconsistentHistory
	// WarningOnly: banned/grade-D pollster skipped, a poll whose
	// candidate names don't match the roster, stale saved ratings.
	// Logged, processing continues.
	WarningOnly
)

func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "config_invalid"
	case MissingData:
		return "missing_data"
	case NumericOutOfRange:
		return "numeric_out_of_range"
	case InconsistentHistory:
		return "inconsistent_history"
	case WarningOnly:
		return "warning_only"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this kind should terminate the process
// (spec §7: ConfigInvalid, MissingData for House races, NumericOutOfRange,
// and InconsistentHistory are all fatal; WarningOnly never is).
func (k Kind) Fatal() bool {
	return k != WarningOnly
}

// Error identifies the file/race/day and the missing or malformed field,
// per spec §7's user-visible failure requirement.
type Error struct {
	Kind    Kind
	Subject string // e.g. a race id, a file path, a date
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %s: field %q: %v", e.Kind, e.Subject, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error, wrapping msg as the underlying error.
func New(kind Kind, subject, field, msg string) *Error {
	return &Error{Kind: kind, Subject: subject, Field: field, Err: errors.New(msg)}
}

// Wrap builds an *Error around an existing error.
func Wrap(kind Kind, subject, field string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Field: field, Err: err}
}

// MissingDataFor reports whether a House race must be treated as fatal:
// no polls, no assumed margin, no rating, no presumed winner, and no
// incumbent party (spec §4.4).
func MissingDataFor(raceID string, hasPolls, hasAssumedMargin, hasRating, hasPresumedWinner, hasIncumbent bool) error {
	if hasPolls || hasAssumedMargin || hasRating || hasPresumedWinner || hasIncumbent {
		return nil
	}
	return New(MissingData, raceID, "", "house race has no polls, assumed margin, rating, presumed winner, or incumbent party")
}
