package models

import (
	"errors"
	"fmt"
)

// Kind classifies ledger errors for the API layer.
type Kind string

const (
	KindInvalidPayload Kind = "invalid_payload" // malformed or missing caller input
	KindNotFound       Kind = "not_found"       // referenced id does not resolve
	KindBusiness       Kind = "business_rule"   // insufficient balance / points
	KindUnauthorized   Kind = "unauthorized"    // reserved, no current operation returns it
)

type LedgerError struct {
	Kind Kind
	Msg  string
}

func (e *LedgerError) Error() string { return e.Msg }

func InvalidPayload(format string, args ...any) error {
	return &LedgerError{Kind: KindInvalidPayload, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &LedgerError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func BusinessError(format string, args ...any) error {
	return &LedgerError{Kind: KindBusiness, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &LedgerError{Kind: KindUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the classification of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
