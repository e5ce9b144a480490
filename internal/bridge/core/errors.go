package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how the pipeline reacts to it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindAuth means the platform rejected our credentials or token, or we hold none.
	KindAuth
	// KindProtocol means a peer answered with something we cannot use.
	KindProtocol
	// KindTransport means the network path failed; listeners reconnect on it.
	KindTransport
	// KindParse means a single stream segment could not be decoded.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindProtocol:
		return "protocol"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the error type returned across the bridge's package boundaries.
type Error struct {
	Kind Kind
	// Op names the failed operation, e.g. "User/SignIn".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AuthError(op string, err error) error      { return &Error{Kind: KindAuth, Op: op, Err: err} }
func ProtocolError(op string, err error) error  { return &Error{Kind: KindProtocol, Op: op, Err: err} }
func TransportError(op string, err error) error { return &Error{Kind: KindTransport, Op: op, Err: err} }
func ParseError(op string, err error) error     { return &Error{Kind: KindParse, Op: op, Err: err} }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsAuth(err error) bool      { return KindOf(err) == KindAuth }
func IsProtocol(err error) bool  { return KindOf(err) == KindProtocol }
func IsTransport(err error) bool { return KindOf(err) == KindTransport }
func IsParse(err error) bool     { return KindOf(err) == KindParse }
