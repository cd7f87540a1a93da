// Package errs defines the error kinds surfaced by the sync layer.
//
// Every failing store, vote or workflow operation returns an *Error whose Kind
// tells the caller what went wrong without parsing messages:
//
//	if errors.Is(err, errs.ErrAuthorization) { ... }
//	switch errs.KindOf(err) { ... }
package errs

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	// KindValidation: a local field constraint failed; nothing was sent.
	KindValidation
	// KindAuthorization: the local ownership/identity check failed; nothing was sent.
	KindAuthorization
	// KindAuth: the server answered 401 or 403.
	KindAuth
	// KindNetwork: no response was received.
	KindNetwork
	// KindRemote: the server answered with any other non-2xx status.
	KindRemote
	// KindDecode: the response body did not match the expected shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindAuth:
		return "AuthError"
	case KindNetwork:
		return "NetworkError"
	case KindRemote:
		return "RemoteError"
	case KindDecode:
		return "DecodeError"
	default:
		return "UnknownError"
	}
}

type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "problems.create".
	Op string
	// Status and Body are set for AuthError and RemoteError.
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the package-level sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrAuth          = &Error{Kind: KindAuth}
	ErrNetwork       = &Error{Kind: KindNetwork}
	ErrRemote        = &Error{Kind: KindRemote}
	ErrDecode        = &Error{Kind: KindDecode}
)

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func Authorization(op, format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Op: op, Err: fmt.Errorf(format, args...)}
}

func Network(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func Decode(op string, err error) error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// HTTP maps a non-2xx status to AuthError or RemoteError.
func HTTP(op string, status int, body string) error {
	kind := KindRemote
	if status == 401 || status == 403 {
		kind = KindAuth
	}
	return &Error{Kind: kind, Op: op, Status: status, Body: body}
}
