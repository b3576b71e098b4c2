package httperr

import (
	"errors"
	"net/http"
)

// Kind classifies a business error so transports can map it.
type Kind int

const (
	KindInvalid Kind = iota
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

type BusinessError struct {
	Code    string
	Kind    Kind
	Details map[string]any
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindInvalid}
}

func ErrConflict(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

func ErrNotFound(code string) error {
	return BusinessError{Code: code, Kind: KindNotFound}
}

func ErrForbidden(code string) error {
	return BusinessError{Code: code, Kind: KindForbidden}
}

func ErrUnauthorized(code string) error {
	return BusinessError{Code: code, Kind: KindUnauthorized}
}

// WithDetails attaches structured context (e.g. the ids that lost a race).
func WithDetails(err error, details map[string]any) error {
	var be BusinessError
	if !errors.As(err, &be) {
		return err
	}
	be.Details = details
	return be
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsConflict(err error) bool {
	var be BusinessError
	return errors.As(err, &be) && be.Kind == KindConflict
}

func IsNotFound(err error) bool {
	var be BusinessError
	return errors.As(err, &be) && be.Kind == KindNotFound
}

// Status maps err to an HTTP status code. Non-business errors are 500.
func Status(err error) int {
	var be BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}

	switch be.Kind {
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
