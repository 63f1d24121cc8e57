package domain

import (
	"errors"
	"testing"
)

func TestParseLoginMethod(t *testing.T) {
	testCases := []struct {
		in   string
		want LoginMethod
	}{
		{"", MethodUnselected},
		{"unselected", MethodUnselected},
		{"phone", MethodPhone},
		{" Phone ", MethodPhone},
		{"google", MethodFederated},
		{"federated", MethodFederated},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLoginMethod(tc.in)
			if err != nil {
				t.Fatalf("ParseLoginMethod(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseLoginMethod(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseLoginMethod_Unknown(t *testing.T) {
	_, err := ParseLoginMethod("carrier-pigeon")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestLoginMethod_StringRoundTrip(t *testing.T) {
	for _, m := range []LoginMethod{MethodUnselected, MethodPhone, MethodFederated} {
		got, err := ParseLoginMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseLoginMethod(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}
	if LoginMethod(42).Valid() {
		t.Error("LoginMethod(42) should not be valid")
	}
}

func TestInvalidStateErrors(t *testing.T) {
	for _, err := range []error{ErrRequestPending, ErrNoPendingRequest, ErrStaleResult, ErrInvalidTransition} {
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("%v should wrap ErrInvalidState", err)
		}
	}
	if errors.Is(ErrUnknownMethod, ErrInvalidState) {
		t.Error("ErrUnknownMethod should not wrap ErrInvalidState")
	}
}

func TestAuthorizationError_Message(t *testing.T) {
	err := &AuthorizationError{Reason: "network unreachable"}
	if err.Error() != "authorization failed: network unreachable" {
		t.Errorf("Error() = %q", err.Error())
	}
	if (&AuthorizationError{}).Error() != "authorization failed" {
		t.Error("empty reason should give bare message")
	}
}
