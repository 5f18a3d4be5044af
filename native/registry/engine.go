package registry

import (
	"math/big"
	"strings"

	"campusledger/core/types"
)

// State describes the minimal functionality the registry needs from the
// surrounding state implementation.
type State interface {
	StudentGet(id [20]byte) (*Student, bool, error)
	StudentPut(id [20]byte, student *Student) error
	ProviderGet(id [20]byte) (*Provider, bool, error)
	ProviderPut(id [20]byte, provider *Provider) error
	AppendEvent(evt *types.Event)
}

// Engine enforces the admin-gated registry operations and exposes the caller
// guards reused by every other module. The administrator and university payee
// identities are fixed at construction from configuration; there are no
// ambient globals.
type Engine struct {
	state      State
	admin      [20]byte
	university [20]byte
}

// NewEngine constructs a registry bound to the configured administrator and
// university payee addresses.
func NewEngine(admin, university [20]byte) *Engine {
	return &Engine{admin: admin, university: university}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// Admin returns the configured administrator address.
func (e *Engine) Admin() [20]byte { return e.admin }

// University returns the configured university payee address.
func (e *Engine) University() [20]byte { return e.university }

// RequireAdmin fails unless the caller is the configured administrator.
func (e *Engine) RequireAdmin(caller [20]byte) error {
	if e == nil || caller != e.admin {
		return ErrNotAdmin
	}
	return nil
}

// RequireActiveStudent loads the student record and fails unless it exists
// and is active.
func (e *Engine) RequireActiveStudent(id [20]byte) (*Student, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	student, ok, err := e.state.StudentGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || !student.Active {
		return nil, ErrStudentNotActive
	}
	student.EnsureDefaults()
	return student, nil
}

// RequireActiveProvider loads the provider record and fails unless it exists
// and is active.
func (e *Engine) RequireActiveProvider(id [20]byte) (*Provider, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	provider, ok, err := e.state.ProviderGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || !provider.Active {
		return nil, ErrProviderNotActive
	}
	provider.EnsureDefaults()
	return provider, nil
}

// RegisterStudent creates the student record, or re-activates it when one
// already exists. Spend history and tier survive a deactivation cycle.
func (e *Engine) RegisterStudent(caller, id [20]byte) error {
	if err := e.RequireAdmin(caller); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	student, ok, err := e.state.StudentGet(id)
	if err != nil {
		return err
	}
	if !ok {
		student = &Student{TotalSpent: big.NewInt(0)}
	}
	student.EnsureDefaults()
	student.Active = true
	if err := e.state.StudentPut(id, student); err != nil {
		return err
	}
	e.state.AppendEvent(newStudentAddedEvent(id))
	return nil
}

// DeactivateStudent clears the active flag. The record is retained.
func (e *Engine) DeactivateStudent(caller, id [20]byte) error {
	if err := e.RequireAdmin(caller); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	student, ok, err := e.state.StudentGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStudentNotFound
	}
	student.EnsureDefaults()
	student.Active = false
	if err := e.state.StudentPut(id, student); err != nil {
		return err
	}
	e.state.AppendEvent(newStudentRemovedEvent(id))
	return nil
}

// RegisterProvider writes a fresh provider record wholesale. Rating
// aggregates start at zero; a provider that needs to keep its reputation
// across profile changes goes through UpdateProvider instead.
func (e *Engine) RegisterProvider(caller, id [20]byte, name, category string) error {
	if err := e.RequireAdmin(caller); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProviderName
	}
	provider := &Provider{
		Name:        name,
		Category:    category,
		Active:      true,
		TotalRating: big.NewInt(0),
	}
	if err := e.state.ProviderPut(id, provider); err != nil {
		return err
	}
	e.state.AppendEvent(newProviderAddedEvent(id, provider))
	return nil
}

// UpdateProvider rewrites the profile fields of an existing provider. It is
// an update-only path: a record must already exist with a non-empty name.
// Rating aggregates are preserved.
func (e *Engine) UpdateProvider(caller, id [20]byte, name, category string, active bool) error {
	if err := e.RequireAdmin(caller); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	provider, ok, err := e.state.ProviderGet(id)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(provider.Name) == "" {
		return ErrProviderNotFound
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProviderName
	}
	provider.EnsureDefaults()
	provider.Name = name
	provider.Category = category
	provider.Active = active
	if err := e.state.ProviderPut(id, provider); err != nil {
		return err
	}
	e.state.AppendEvent(newProviderUpdatedEvent(id, provider))
	return nil
}

// DeactivateProvider clears the active flag. The record and its reputation
// are retained.
func (e *Engine) DeactivateProvider(caller, id [20]byte) error {
	if err := e.RequireAdmin(caller); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	provider, ok, err := e.state.ProviderGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProviderNotFound
	}
	provider.EnsureDefaults()
	provider.Active = false
	if err := e.state.ProviderPut(id, provider); err != nil {
		return err
	}
	e.state.AppendEvent(newProviderRemovedEvent(id))
	return nil
}
