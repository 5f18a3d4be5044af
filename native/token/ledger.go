package token

import "math/big"

// Ledger is the narrow fungible-balance capability the marketplace depends
// on. Settlement and airdrop compose against this interface only; the
// state-backed Engine below is one implementation, injected at wiring time.
type Ledger interface {
	Mint(to [20]byte, amount *big.Int) error
	Burn(from [20]byte, amount *big.Int) error
	Transfer(from, to [20]byte, amount *big.Int) error
	BalanceOf(addr [20]byte) (*big.Int, error)
}
