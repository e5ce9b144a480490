package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Kind
		is   func(error) bool
	}{
		{"auth", AuthError("User/SignIn", base), KindAuth, IsAuth},
		{"protocol", ProtocolError("AlarmType/Query", base), KindProtocol, IsProtocol},
		{"transport", TransportError("dial", base), KindTransport, IsTransport},
		{"parse", ParseError("decode", base), KindParse, IsParse},
		{"wrapped", fmt.Errorf("bootstrap: %w", AuthError("User/SignIn", base)), KindAuth, IsAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
			if !tt.is(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if !errors.Is(tt.err, base) {
				t.Errorf("cause lost in %v", tt.err)
			}
		})
	}

	if KindOf(base) != KindUnknown {
		t.Error("plain errors should be KindUnknown")
	}
}

func TestErrorMessage(t *testing.T) {
	err := AuthError("User/SignIn", errors.New("state 1"))
	if got, want := err.Error(), "User/SignIn: auth error: state 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := (&Error{Kind: KindTransport, Op: "read"}).Error(), "read: transport error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
