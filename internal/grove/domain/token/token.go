// Package token defines NFT ownership records and the priced mint tier catalog.
package token

// Token is one minted grove token.
//
// Ownership recorded here is authoritative; the plant state store keeps a
// mirror of Owner that the identity service rewrites on every transfer.
type Token struct {
	// TokenID is assigned by the monotonic mint counter, starting at 1.
	TokenID uint64
	// Owner is the current holder address.
	Owner string
	// Tier is the mint tier purchased at mint time, zero for free mints.
	Tier uint32
	// MintedAtHeight is the logical height of the mint.
	MintedAtHeight uint64
}

// FreeMintTier marks tokens minted through the admin free-mint path.
const FreeMintTier uint32 = 0
