package authtoken

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
)

func testConfig(now func() time.Time) Config {
	return Config{
		Issuer: "warmnest-auth",
		Secret: []byte("test-secret"),
		Now:    now,
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig(nil)
	token, err := Mint(cfg, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	userID, err := Verify(cfg, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("user id = %q, want %q", userID, "user-1")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Mint(testConfig(nil), "user-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := testConfig(nil)
	other.Secret = []byte("different-secret")
	_, err = Verify(other, token)
	if !errors.Is(err, apperrors.New(apperrors.CodeUnauthorized, "")) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig(func() time.Time { return issued })
	token, err := Mint(cfg, "user-1", time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	later := testConfig(func() time.Time { return issued.Add(2 * time.Minute) })
	_, err = Verify(later, token)
	if !errors.Is(err, apperrors.New(apperrors.CodeUnauthorized, "")) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	cfg := testConfig(nil)
	token, err := Mint(cfg, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := testConfig(nil)
	other.Issuer = "someone-else"
	if _, err := Verify(other, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestVerifyRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := Verify(testConfig(nil), "  "); err == nil {
		t.Fatal("expected empty token error")
	}
}
