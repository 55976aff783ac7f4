package treasury

import "testing"

func TestNewAccountDefaultsPrice(t *testing.T) {
	if got := NewAccount(0).PricePerTree; got != DefaultPricePerTree {
		t.Fatalf("expected default price %d, got %d", DefaultPricePerTree, got)
	}
	if got := NewAccount(123).PricePerTree; got != 123 {
		t.Fatalf("expected explicit price 123, got %d", got)
	}
}

func TestCheckInvariant(t *testing.T) {
	ok := Account{Balance: 300, TotalDeposited: 1000, TotalPaidOut: 500, TotalWithdrawn: 200}
	if err := ok.CheckInvariant(); err != nil {
		t.Fatalf("expected consistent account to pass: %v", err)
	}

	drifted := Account{Balance: 301, TotalDeposited: 1000, TotalPaidOut: 500, TotalWithdrawn: 200}
	if err := drifted.CheckInvariant(); err == nil {
		t.Fatalf("expected drifted balance to fail the invariant")
	}

	negative := Account{Balance: 0, TotalDeposited: 100, TotalPaidOut: 200}
	if err := negative.CheckInvariant(); err == nil {
		t.Fatalf("expected outflows over deposits to fail the invariant")
	}
}

func TestHasPartner(t *testing.T) {
	if (Account{}).HasPartner() {
		t.Fatalf("expected empty partner to report false")
	}
	if !(Account{Partner: "addr-partner"}).HasPartner() {
		t.Fatalf("expected configured partner to report true")
	}
}
