package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeOrderNotFound, "order missing")
	if !stderrors.Is(err, New(CodeOrderNotFound, "different message")) {
		t.Fatal("expected code match")
	}
	if stderrors.Is(err, New(CodeProductNotFound, "order missing")) {
		t.Fatal("expected code mismatch")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "save order", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if err.Error() != "save order" {
		t.Fatalf("message = %q, want %q", err.Error(), "save order")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		code Code
		want int
	}{
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeAdminRequired, http.StatusForbidden},
		{CodeOrderNotFound, http.StatusNotFound},
		{CodeVendorSlugTaken, http.StatusConflict},
		{CodePaymentBadSignature, http.StatusBadRequest},
		{CodePaymentConfigMissing, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("%s status = %d, want %d", tc.code, got, tc.want)
		}
	}
}
