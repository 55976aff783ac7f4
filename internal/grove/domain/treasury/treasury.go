// Package treasury defines the singleton treasury account and its invariants.
package treasury

import "fmt"

// DefaultPricePerTree is the payout per redeemed unit in micro-units.
const DefaultPricePerTree uint64 = 500_000

// Account is the singleton treasury ledger record.
//
// Balance always equals TotalDeposited - TotalPaidOut - TotalWithdrawn. Every
// store write re-derives the balance from the counters so the invariant
// cannot drift.
type Account struct {
	Balance          uint64
	Partner          string
	PricePerTree     uint64
	TotalDeposited   uint64
	TotalPaidOut     uint64
	TotalWithdrawn   uint64
	TotalRedemptions uint64
}

// NewAccount returns the initial treasury state with the given per-tree price.
func NewAccount(pricePerTree uint64) Account {
	if pricePerTree == 0 {
		pricePerTree = DefaultPricePerTree
	}
	return Account{PricePerTree: pricePerTree}
}

// CheckInvariant verifies the balance identity.
func (a Account) CheckInvariant() error {
	outflows := a.TotalPaidOut + a.TotalWithdrawn
	if a.TotalDeposited < outflows {
		return fmt.Errorf("treasury outflows %d exceed deposits %d", outflows, a.TotalDeposited)
	}
	if a.Balance != a.TotalDeposited-outflows {
		return fmt.Errorf("treasury balance %d drifted from counters (deposited %d, paid out %d, withdrawn %d)",
			a.Balance, a.TotalDeposited, a.TotalPaidOut, a.TotalWithdrawn)
	}
	return nil
}

// HasPartner reports whether a payout partner is configured.
func (a Account) HasPartner() bool {
	return a.Partner != ""
}
