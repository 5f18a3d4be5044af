package state

import (
	"fmt"
	"math/big"

	"campusledger/core/types"
)

var accountPrefix = []byte("campus/account/")

func accountKey(addr [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", accountPrefix, addr))
}

// account mirrors types.Account with RLP-safe field types.
type account struct {
	Balance *big.Int
}

// GetAccount loads the balance record for an address. Addresses that never
// held coin resolve to a zero-balance account.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	var stored account
	ok, err := m.KVGet(accountKey(addr), &stored)
	if err != nil {
		return nil, err
	}
	acc := &types.Account{}
	if ok {
		acc.Balance = stored.Balance
	}
	acc.EnsureDefaults()
	return acc, nil
}

// PutAccount persists the balance record for an address.
func (m *Manager) PutAccount(addr [20]byte, acc *types.Account) error {
	if acc == nil {
		return fmt.Errorf("state: account must not be nil")
	}
	acc.EnsureDefaults()
	return m.KVPut(accountKey(addr), &account{Balance: acc.Balance})
}
