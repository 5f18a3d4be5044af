package types

import "math/big"

// Unit is the fixed-point scaling factor shared by the token ledger and every
// price in the catalog: one whole coin equals Unit base increments.
//
// Display-to-ledger conversion happens exactly once, at the boundary where a
// caller-facing amount enters the core (RPC handlers and config genesis
// values). Everything below that boundary operates on scaled amounts only.
var Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ToScaled converts a whole-coin display amount into the ledger's base
// increments. A nil input yields zero.
func ToScaled(display *big.Int) *big.Int {
	if display == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(display, Unit)
}

// FromScaled converts a ledger amount back to whole coins, truncating any
// sub-coin remainder.
func FromScaled(scaled *big.Int) *big.Int {
	if scaled == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Quo(scaled, Unit)
}
