package settlement

import (
	"encoding/hex"
	"strconv"
	"strings"

	"campusledger/core/types"
	"campusledger/native/catalog"
	"campusledger/native/fees"
	"campusledger/native/registry"
	"campusledger/native/tier"
	"campusledger/native/token"
)

// TypeServicePaid is emitted once a payment settles.
const TypeServicePaid = "settlement.paid"

// State describes the minimal functionality settlement needs from the
// surrounding state implementation.
type State interface {
	StudentPut(id [20]byte, student *registry.Student) error
	ProviderGet(id [20]byte) (*registry.Provider, bool, error)
	ServiceGet(provider [20]byte, id uint64) (*catalog.Service, bool, error)
	FeeBps() (uint32, error)
	AppendEvent(evt *types.Event)
}

// Guard is the slice of the registry used to authenticate paying students.
type Guard interface {
	RequireActiveStudent(id [20]byte) (*registry.Student, error)
}

// Engine orchestrates a payment: it validates the parties and the service,
// computes the discount and fee split, records the spend and tier before any
// value moves, and then executes the transfers through the injected ledger.
// The surrounding state overlay makes the whole call all-or-nothing, so a
// transfer failure discards the bookkeeping updates as well.
type Engine struct {
	state      State
	guard      Guard
	ledger     token.Ledger
	university [20]byte
}

// NewEngine constructs a settlement engine. The university address receives
// the platform fee on every payment.
func NewEngine(guard Guard, ledger token.Ledger, university [20]byte) *Engine {
	return &Engine{guard: guard, ledger: ledger, university: university}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// PayForService settles a single service purchase by the student caller.
func (e *Engine) PayForService(student, provider [20]byte, serviceID uint64) error {
	if e == nil || e.state == nil || e.guard == nil || e.ledger == nil {
		return ErrNilState
	}

	// Checks.
	payer, err := e.guard.RequireActiveStudent(student)
	if err != nil {
		return err
	}
	providerRecord, ok, err := e.state.ProviderGet(provider)
	if err != nil {
		return err
	}
	if !ok || !providerRecord.Active {
		return ErrProviderNotActive
	}
	service, ok, err := e.state.ServiceGet(provider, serviceID)
	if err != nil {
		return err
	}
	if !ok || !service.Active || strings.TrimSpace(service.Name) == "" {
		return ErrServiceNotAvailable
	}
	service.EnsureDefaults()

	bps, err := e.state.FeeBps()
	if err != nil {
		return err
	}
	discounted := service.DiscountedPrice()
	fee, toProvider := fees.Apply(discounted, bps)

	// Effects: commit the internal bookkeeping before any value transfer.
	payer.EnsureDefaults()
	payer.TotalSpent = payer.TotalSpent.Add(payer.TotalSpent, discounted)
	previousTier := payer.Tier
	if next := tier.TierFor(payer.TotalSpent); next != previousTier {
		payer.Tier = next
		e.state.AppendEvent(tier.NewChangedEvent(student, previousTier, next))
	}
	if err := e.state.StudentPut(student, payer); err != nil {
		return err
	}

	// Interactions.
	if fee.Sign() > 0 {
		if err := e.ledger.Transfer(student, e.university, fee); err != nil {
			return err
		}
	}
	if toProvider.Sign() > 0 {
		if err := e.ledger.Transfer(student, provider, toProvider); err != nil {
			return err
		}
	}

	e.state.AppendEvent(&types.Event{Type: TypeServicePaid, Attributes: map[string]string{
		"student":   hex.EncodeToString(student[:]),
		"provider":  hex.EncodeToString(provider[:]),
		"serviceId": strconv.FormatUint(serviceID, 10),
		"amount":    toProvider.String(),
		"fee":       fee.String(),
	}})
	return nil
}
