package fees

import (
	"fmt"
	"math/big"
	"strconv"

	"campusledger/core/types"
	"campusledger/native/common"
)

// MaxBps caps the platform fee at 10%. The bound is fixed policy, not
// configuration.
const MaxBps uint32 = 1000

// BpsDenominator converts basis points to a fraction.
const BpsDenominator = 10_000

// TypeFeeUpdated is emitted whenever the platform fee rate changes.
const TypeFeeUpdated = "fees.updated"

var (
	ErrBpsOutOfRange = fmt.Errorf("fees: basis points above maximum: %w", common.ErrValidation)
	ErrNilState      = fmt.Errorf("fees: state not configured: %w", common.ErrState)
)

// State describes the minimal functionality the fee policy needs from the
// surrounding state implementation. No history is retained; a single
// process-wide rate is stored.
type State interface {
	FeeBps() (uint32, error)
	SetFeeBps(bps uint32) error
	AppendEvent(evt *types.Event)
}

// Policy reads and mutates the platform fee rate. Admin gating is applied by
// the caller through the registry guard before Set is reached.
type Policy struct {
	state State
}

// NewPolicy constructs a fee policy backed by the provided state.
func NewPolicy() *Policy { return &Policy{} }

// SetState configures the state backend used by the policy.
func (p *Policy) SetState(state State) { p.state = state }

// Bps returns the current fee rate in basis points.
func (p *Policy) Bps() (uint32, error) {
	if p == nil || p.state == nil {
		return 0, ErrNilState
	}
	return p.state.FeeBps()
}

// Set stores a new fee rate after validating the bound and emits a change
// notification.
func (p *Policy) Set(bps uint32) error {
	if p == nil || p.state == nil {
		return ErrNilState
	}
	if bps > MaxBps {
		return ErrBpsOutOfRange
	}
	if err := p.state.SetFeeBps(bps); err != nil {
		return err
	}
	p.state.AppendEvent(&types.Event{Type: TypeFeeUpdated, Attributes: map[string]string{
		"bps": strconv.FormatUint(uint64(bps), 10),
	}})
	return nil
}

// Apply computes the platform fee on a gross amount using truncating integer
// division, returning the fee and the remaining net. The truncation remainder
// stays with the payer; no rounding adjustment is distributed.
func Apply(gross *big.Int, bps uint32) (fee, net *big.Int) {
	if gross == nil || gross.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	net = new(big.Int).Set(gross)
	fee = new(big.Int).Mul(net, new(big.Int).SetUint64(uint64(bps)))
	fee.Quo(fee, big.NewInt(BpsDenominator))
	if fee.Sign() <= 0 {
		return big.NewInt(0), net
	}
	net = new(big.Int).Sub(net, fee)
	return fee, net
}
