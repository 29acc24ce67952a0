package auction

import (
	"errors"
	"fmt"
)

// Kind classifies the expected, typed outcomes of auction commands. These
// are results for the caller, not crashes; the engine never retries them.
type Kind string

const (
	KindInvalidPhase        Kind = "invalid_phase"
	KindPriceTooLow         Kind = "price_too_low"
	KindBidTooLow           Kind = "bid_too_low"
	KindWindowExpired       Kind = "window_expired"
	KindNotYetExpired       Kind = "not_yet_expired"
	KindSuperseded          Kind = "superseded"
	KindBudgetExceeded      Kind = "budget_exceeded"
	KindSlotsExhausted      Kind = "slots_exhausted"
	KindCategoryQuota       Kind = "category_quota_exceeded"
	KindItemAlreadySold     Kind = "item_already_sold"
	KindParticipantNotFound Kind = "participant_not_found"
	KindItemNotFound        Kind = "item_not_found"
	KindStorageUnavailable  Kind = "storage_unavailable"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an auction Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// KindOf extracts the kind of an auction Error, or "" for other errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Store-level sentinels. Implementations of Store return these so the
// engine can translate storage outcomes into command results.
var (
	// ErrStale signals a conditional write that matched zero rows: the
	// state moved between the caller's read and its write.
	ErrStale = errors.New("auction state changed since read")

	// ErrNotFound signals a missing row.
	ErrNotFound = errors.New("not found")
)
