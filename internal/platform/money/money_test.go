package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCentsRoundTrip(t *testing.T) {
	t.Parallel()

	amount := decimal.RequireFromString("250.00")
	cents := ToCents(amount)
	if cents != 25000 {
		t.Fatalf("cents = %d, want 25000", cents)
	}
	if !FromCents(cents).Equal(amount) {
		t.Fatalf("round trip = %s, want %s", FromCents(cents), amount)
	}
}

func TestToCentsRounds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount string
		want   int64
	}{
		{"0.01", 1},
		{"85.00", 8500},
		{"99.999", 10000},
		{"10.005", 1001},
	}
	for _, tc := range testCases {
		got := ToCents(decimal.RequireFromString(tc.amount))
		if got != tc.want {
			t.Fatalf("ToCents(%s) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestFormatTwoDecimalPlaces(t *testing.T) {
	t.Parallel()

	if got := Format(decimal.RequireFromString("1650")); got != "1650.00" {
		t.Fatalf("format = %q, want %q", got, "1650.00")
	}
	if got := Format(decimal.RequireFromString("0.5")); got != "0.50" {
		t.Fatalf("format = %q, want %q", got, "0.50")
	}
}
