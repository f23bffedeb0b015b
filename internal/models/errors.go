package models

import (
	"errors"
	"fmt"
)

var (
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherExpired  = errors.New("voucher has expired")
	ErrVoucherUsed     = errors.New("voucher has already been used")
	ErrProjectNotFound = errors.New("project not found")
)

// ErrorKind is a coarse classification used by the HTTP layer.
type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindConflict ErrorKind = "conflict"
	KindGone     ErrorKind = "gone"
	KindStorage  ErrorKind = "storage"
)

// OpError wraps an error with the operation that produced it.
type OpError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap attaches op to err, deriving the kind from the domain sentinels.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrVoucherNotFound), errors.Is(err, ErrProjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrVoucherUsed):
		return KindConflict
	case errors.Is(err, ErrVoucherExpired):
		return KindGone
	default:
		return KindStorage
	}
}

// IsKind reports whether err carries an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
