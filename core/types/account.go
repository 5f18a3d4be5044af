package types

import "math/big"

// Account is the balance-bearing record stored for every address that has
// ever held coin. Marketplace roles (student, provider) live in their own
// records; an account exists independently of any role.
type Account struct {
	Balance *big.Int
}

// EnsureDefaults replaces nil numeric fields with zero values so callers can
// operate on freshly loaded accounts without nil checks.
func (a *Account) EnsureDefaults() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
}
