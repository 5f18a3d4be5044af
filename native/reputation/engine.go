package reputation

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"campusledger/core/types"
	"campusledger/native/registry"
)

const (
	// MinRating and MaxRating bound the accepted rating values.
	MinRating uint32 = 1
	MaxRating uint32 = 5
)

// TypeProviderRated is emitted after a rating is recorded.
const TypeProviderRated = "reputation.rated"

// State describes the minimal functionality the reputation ledger needs from
// the surrounding state implementation. The (student, provider) guard is a
// write-once marker.
type State interface {
	ProviderGet(id [20]byte) (*registry.Provider, bool, error)
	ProviderPut(id [20]byte, provider *registry.Provider) error
	RatingSeen(student, provider [20]byte) (bool, error)
	MarkRated(student, provider [20]byte) error
	AppendEvent(evt *types.Event)
}

// Guard is the slice of the registry used to authenticate rating callers.
type Guard interface {
	RequireActiveStudent(id [20]byte) (*registry.Student, error)
}

// Engine maintains the per-provider rating aggregates. Aggregates only grow:
// there is no rating revision or deletion path.
type Engine struct {
	state State
	guard Guard
}

// NewEngine constructs a reputation engine gated by the provided registry
// guard.
func NewEngine(guard Guard) *Engine {
	return &Engine{guard: guard}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// Rate records a one-time rating of a provider by a student. The provider
// must exist and be active; each (student, provider) pair may rate once.
func (e *Engine) Rate(student, provider [20]byte, value uint32) error {
	if e == nil || e.state == nil || e.guard == nil {
		return ErrNilState
	}
	if _, err := e.guard.RequireActiveStudent(student); err != nil {
		return err
	}
	record, ok, err := e.state.ProviderGet(provider)
	if err != nil {
		return err
	}
	if !ok || !record.Active {
		return ErrProviderNotRatable
	}
	if value < MinRating || value > MaxRating {
		return ErrRatingOutOfRange
	}
	seen, err := e.state.RatingSeen(student, provider)
	if err != nil {
		return err
	}
	if seen {
		return ErrAlreadyRated
	}
	if err := e.state.MarkRated(student, provider); err != nil {
		return err
	}
	record.EnsureDefaults()
	record.TotalRating = new(big.Int).Add(record.TotalRating, new(big.Int).SetUint64(uint64(value)))
	record.RatingCount++
	if err := e.state.ProviderPut(provider, record); err != nil {
		return err
	}
	e.state.AppendEvent(&types.Event{Type: TypeProviderRated, Attributes: map[string]string{
		"student":  hex.EncodeToString(student[:]),
		"provider": hex.EncodeToString(provider[:]),
		"rating":   strconv.FormatUint(uint64(value), 10),
	}})
	return nil
}

// AverageRating returns the truncating integer average and the rating count
// for a provider, (0, 0) when the provider has no ratings or no record.
func (e *Engine) AverageRating(provider [20]byte) (uint64, uint64, error) {
	if e == nil || e.state == nil {
		return 0, 0, ErrNilState
	}
	record, ok, err := e.state.ProviderGet(provider)
	if err != nil {
		return 0, 0, err
	}
	if !ok || record.RatingCount == 0 {
		return 0, 0, nil
	}
	record.EnsureDefaults()
	avg := new(big.Int).Quo(record.TotalRating, new(big.Int).SetUint64(record.RatingCount))
	return avg.Uint64(), record.RatingCount, nil
}
