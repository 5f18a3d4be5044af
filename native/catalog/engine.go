package catalog

import (
	"math/big"
	"strings"

	"campusledger/native/registry"
)

// MaxDiscountPct bounds the per-service percentage discount.
const MaxDiscountPct uint32 = 100

// State describes the minimal functionality the catalog needs from the
// surrounding state implementation.
type State interface {
	ServiceGet(provider [20]byte, id uint64) (*Service, bool, error)
	ServicePut(provider [20]byte, id uint64, service *Service) error
}

// Guard is the slice of the registry the catalog uses to gate mutations:
// every write requires the caller to be an active provider, and the caller
// implicitly acts on its own namespace.
type Guard interface {
	RequireActiveProvider(id [20]byte) (*registry.Provider, error)
}

// Engine maintains the per-provider service catalog.
type Engine struct {
	state State
	guard Guard
}

// NewEngine constructs a catalog engine gated by the provided registry guard.
func NewEngine(guard Guard) *Engine {
	return &Engine{guard: guard}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

func (e *Engine) requireCaller(caller [20]byte) error {
	if e == nil || e.state == nil || e.guard == nil {
		return ErrNilState
	}
	_, err := e.guard.RequireActiveProvider(caller)
	return err
}

// loadExisting fetches a service that must already exist. Absence is encoded
// as an empty stored name, matching the write paths which always require one.
func (e *Engine) loadExisting(provider [20]byte, id uint64) (*Service, error) {
	service, ok, err := e.state.ServiceGet(provider, id)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(service.Name) == "" {
		return nil, ErrServiceNotFound
	}
	service.EnsureDefaults()
	return service, nil
}

// AddOrReplaceService writes a catalog entry wholesale: discount resets to
// zero and the entry becomes active, overwriting any prior entry for the id.
func (e *Engine) AddOrReplaceService(caller [20]byte, id uint64, name string, price *big.Int) error {
	if err := e.requireCaller(caller); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyServiceName
	}
	if price == nil || price.Sign() < 0 {
		return ErrInvalidPrice
	}
	service := &Service{
		Name:   name,
		Price:  new(big.Int).Set(price),
		Active: true,
	}
	return e.state.ServicePut(caller, id, service)
}

// DeactivateService clears the active flag of an existing entry.
func (e *Engine) DeactivateService(caller [20]byte, id uint64) error {
	if err := e.requireCaller(caller); err != nil {
		return err
	}
	service, err := e.loadExisting(caller, id)
	if err != nil {
		return err
	}
	service.Active = false
	return e.state.ServicePut(caller, id, service)
}

// UpdateService rewrites name, price and active flag of an existing entry.
// The discount is preserved.
func (e *Engine) UpdateService(caller [20]byte, id uint64, name string, price *big.Int, active bool) error {
	if err := e.requireCaller(caller); err != nil {
		return err
	}
	service, err := e.loadExisting(caller, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyServiceName
	}
	if price == nil || price.Sign() < 0 {
		return ErrInvalidPrice
	}
	service.Name = name
	service.Price = new(big.Int).Set(price)
	service.Active = active
	return e.state.ServicePut(caller, id, service)
}

// SetDiscount stores a bounded percentage discount on an existing entry.
func (e *Engine) SetDiscount(caller [20]byte, id uint64, pct uint32) error {
	if err := e.requireCaller(caller); err != nil {
		return err
	}
	if pct > MaxDiscountPct {
		return ErrDiscountOutOfRange
	}
	service, err := e.loadExisting(caller, id)
	if err != nil {
		return err
	}
	service.Discount = pct
	return e.state.ServicePut(caller, id, service)
}

// GetService returns the entry stored for (provider, id), or a zero-valued
// service when absent. Reads are not gated.
func (e *Engine) GetService(provider [20]byte, id uint64) (*Service, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	service, ok, err := e.state.ServiceGet(provider, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Service{Price: big.NewInt(0)}, nil
	}
	service.EnsureDefaults()
	return service, nil
}
