package token

import (
	"encoding/hex"
	"math/big"

	"campusledger/core/types"
)

const (
	TypeTokensMinted = "token.minted"
	TypeTokensBurned = "token.burned"
	TypeTransfer     = "token.transfer"
)

// State describes the account access the ledger implementation needs.
type State interface {
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
	AppendEvent(evt *types.Event)
}

// Engine is the state-backed Ledger implementation. Conservation holds by
// construction: Transfer moves value, Mint and Burn adjust a single balance
// and are reachable only through admin-gated or self-service entry points.
type Engine struct {
	state State
}

// NewEngine constructs a token ledger.
func NewEngine() *Engine { return &Engine{} }

// SetState configures the state backend used by the ledger.
func (e *Engine) SetState(state State) { e.state = state }

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (e *Engine) loadAccount(addr [20]byte) (*types.Account, error) {
	acc, err := e.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &types.Account{}
	}
	acc.EnsureDefaults()
	return acc, nil
}

// Mint credits freshly issued coin to the target account.
func (e *Engine) Mint(to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	acc, err := e.loadAccount(to)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Add(acc.Balance, amt)
	if err := e.state.PutAccount(to, acc); err != nil {
		return err
	}
	e.state.AppendEvent(&types.Event{Type: TypeTokensMinted, Attributes: map[string]string{
		"to":     hex.EncodeToString(to[:]),
		"amount": amt.String(),
	}})
	return nil
}

// Burn destroys coin from the source account.
func (e *Engine) Burn(from [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	acc, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if acc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	acc.Balance = new(big.Int).Sub(acc.Balance, amt)
	if err := e.state.PutAccount(from, acc); err != nil {
		return err
	}
	e.state.AppendEvent(&types.Event{Type: TypeTokensBurned, Attributes: map[string]string{
		"from":   hex.EncodeToString(from[:]),
		"amount": amt.String(),
	}})
	return nil
}

// Transfer moves coin between two accounts. Self transfers are a no-op on
// balances but still emit the ledger event.
func (e *Engine) Transfer(from, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	fromAcc, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if fromAcc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	toAcc, err := e.loadAccount(to)
	if err != nil {
		return err
	}
	if from == to {
		toAcc = fromAcc
	} else {
		fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
		toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
		if err := e.state.PutAccount(from, fromAcc); err != nil {
			return err
		}
	}
	if err := e.state.PutAccount(to, toAcc); err != nil {
		return err
	}
	e.state.AppendEvent(&types.Event{Type: TypeTransfer, Attributes: map[string]string{
		"from":   hex.EncodeToString(from[:]),
		"to":     hex.EncodeToString(to[:]),
		"amount": amt.String(),
	}})
	return nil
}

// BalanceOf returns the current balance of the address, zero when the
// account has never held coin.
func (e *Engine) BalanceOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	acc, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(acc.Balance), nil
}
