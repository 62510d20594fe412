package fulfillment

import "fmt"

type ErrorCode string

const (
	// ErrorMissingSlot means a slot the flow depends on was absent or not
	// actionable on the inbound turn.
	ErrorMissingSlot ErrorCode = "MISSING_SLOT"
	// ErrorCatalogQuery means a lunch-options lookup failed.
	ErrorCatalogQuery ErrorCode = "CATALOG_QUERY"
	// ErrorStateStore means persisting session state failed.
	ErrorStateStore ErrorCode = "STATE_STORE"
	// ErrorInternal covers everything else.
	ErrorInternal ErrorCode = "INTERNAL_ERROR"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("fulfillment: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("fulfillment: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
