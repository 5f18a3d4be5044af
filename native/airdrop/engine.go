package airdrop

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"campusledger/core/types"
	"campusledger/native/common"
	"campusledger/native/registry"
	"campusledger/native/tier"
	"campusledger/native/token"
)

// TypeAirdropExecuted is emitted once per credited recipient.
const TypeAirdropExecuted = "airdrop.executed"

var (
	ErrInvalidBaseAmount = fmt.Errorf("airdrop: base amount must be positive: %w", common.ErrValidation)
	ErrNilState          = fmt.Errorf("airdrop: state not configured: %w", common.ErrState)
)

// State describes the minimal functionality the airdrop engine needs from
// the surrounding state implementation.
type State interface {
	StudentGet(id [20]byte) (*registry.Student, bool, error)
	AppendEvent(evt *types.Event)
}

// Guard is the slice of the registry used to gate the batch to the admin.
type Guard interface {
	RequireAdmin(caller [20]byte) error
}

// Engine batch-mints tier-scaled amounts to registered students. Recipients
// are independent: inactive or unknown entries are skipped without error and
// without rolling back earlier mints in the batch.
type Engine struct {
	state  State
	guard  Guard
	ledger token.Ledger
}

// NewEngine constructs an airdrop engine.
func NewEngine(guard Guard, ledger token.Ledger) *Engine {
	return &Engine{guard: guard, ledger: ledger}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// Airdrop mints baseAmount scaled by each recipient's tier multiplier. Only
// a non-admin caller or a malformed base amount fails the whole call.
func (e *Engine) Airdrop(caller [20]byte, recipients [][20]byte, baseAmount *big.Int) error {
	if e == nil || e.state == nil || e.guard == nil || e.ledger == nil {
		return ErrNilState
	}
	if err := e.guard.RequireAdmin(caller); err != nil {
		return err
	}
	if baseAmount == nil || baseAmount.Sign() <= 0 {
		return ErrInvalidBaseAmount
	}
	for _, recipient := range recipients {
		student, ok, err := e.state.StudentGet(recipient)
		if err != nil {
			return err
		}
		if !ok || !student.Active {
			continue
		}
		amount := tier.ScaleByMultiplier(baseAmount, student.Tier)
		if amount.Sign() <= 0 {
			continue
		}
		if err := e.ledger.Mint(recipient, amount); err != nil {
			return err
		}
		e.state.AppendEvent(&types.Event{Type: TypeAirdropExecuted, Attributes: map[string]string{
			"recipient": hex.EncodeToString(recipient[:]),
			"tier":      student.Tier.String(),
			"amount":    amount.String(),
		}})
	}
	return nil
}
