package reputation

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"campusledger/core/types"
	"campusledger/native/common"
	"campusledger/native/registry"
)

type ratingPair struct {
	student  [20]byte
	provider [20]byte
}

type mockState struct {
	providers map[[20]byte]*registry.Provider
	rated     map[ratingPair]bool
	events    []*types.Event
}

func newMockState() *mockState {
	return &mockState{
		providers: make(map[[20]byte]*registry.Provider),
		rated:     make(map[ratingPair]bool),
	}
}

func (m *mockState) ProviderGet(id [20]byte) (*registry.Provider, bool, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, false, nil
	}
	clone := *p
	clone.TotalRating = new(big.Int).Set(p.TotalRating)
	return &clone, true, nil
}

func (m *mockState) ProviderPut(id [20]byte, p *registry.Provider) error {
	clone := *p
	clone.TotalRating = new(big.Int).Set(p.TotalRating)
	m.providers[id] = &clone
	return nil
}

func (m *mockState) RatingSeen(student, provider [20]byte) (bool, error) {
	return m.rated[ratingPair{student, provider}], nil
}

func (m *mockState) MarkRated(student, provider [20]byte) error {
	m.rated[ratingPair{student, provider}] = true
	return nil
}

func (m *mockState) AppendEvent(evt *types.Event) { m.events = append(m.events, evt) }

type mockGuard struct {
	active map[[20]byte]bool
}

func (g *mockGuard) RequireActiveStudent(id [20]byte) (*registry.Student, error) {
	if g.active[id] {
		return &registry.Student{Active: true, TotalSpent: big.NewInt(0)}, nil
	}
	return nil, registry.ErrStudentNotActive
}

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func newTestEngine(st *mockState, students ...[20]byte) *Engine {
	guard := &mockGuard{active: make(map[[20]byte]bool)}
	for _, s := range students {
		guard.active[s] = true
	}
	engine := NewEngine(guard)
	engine.SetState(st)
	return engine
}

func addProvider(st *mockState, id [20]byte, active bool) {
	st.providers[id] = &registry.Provider{Name: "Print Shop", Active: active, TotalRating: big.NewInt(0)}
}

func TestRateAggregates(t *testing.T) {
	st := newMockState()
	alice, bob, provider := testAddr(0x01), testAddr(0x02), testAddr(0x03)
	engine := newTestEngine(st, alice, bob)
	addProvider(st, provider, true)

	if err := engine.Rate(alice, provider, 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := engine.Rate(bob, provider, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	avg, count, err := engine.AverageRating(provider)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 4 || count != 2 {
		t.Fatalf("average = (%d, %d), want (4, 2) with truncating division", avg, count)
	}
	if len(st.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(st.events))
	}
}

func TestAverageRatingEmpty(t *testing.T) {
	st := newMockState()
	provider := testAddr(0x03)
	engine := newTestEngine(st)
	addProvider(st, provider, true)

	avg, count, err := engine.AverageRating(provider)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 0 || count != 0 {
		t.Fatalf("empty average = (%d, %d), want (0, 0)", avg, count)
	}
	// Unknown providers also read as (0, 0).
	avg, count, err = engine.AverageRating(testAddr(0x09))
	if err != nil || avg != 0 || count != 0 {
		t.Fatalf("unknown provider average = (%d, %d, %v), want (0, 0, nil)", avg, count, err)
	}
}

func TestRateOncePerPair(t *testing.T) {
	st := newMockState()
	alice, provider := testAddr(0x01), testAddr(0x03)
	engine := newTestEngine(st, alice)
	addProvider(st, provider, true)

	if err := engine.Rate(alice, provider, 3); err != nil {
		t.Fatalf("rate: %v", err)
	}
	err := engine.Rate(alice, provider, 5)
	if !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("expected ErrAlreadyRated, got %v", err)
	}
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation class, got %v", err)
	}
	if st.providers[provider].RatingCount != 1 {
		t.Fatalf("rating count = %d, want exactly 1", st.providers[provider].RatingCount)
	}
}

func TestRateBounds(t *testing.T) {
	st := newMockState()
	alice, provider := testAddr(0x01), testAddr(0x03)
	engine := newTestEngine(st, alice)
	addProvider(st, provider, true)

	for _, value := range []uint32{0, 6} {
		if err := engine.Rate(alice, provider, value); !errors.Is(err, ErrRatingOutOfRange) {
			t.Fatalf("rating %d: expected ErrRatingOutOfRange, got %v", value, err)
		}
	}
}

func TestRateGuards(t *testing.T) {
	st := newMockState()
	alice, provider := testAddr(0x01), testAddr(0x03)
	engine := newTestEngine(st, alice)

	// Unknown provider.
	if err := engine.Rate(alice, provider, 4); !errors.Is(err, ErrProviderNotRatable) {
		t.Fatalf("expected ErrProviderNotRatable, got %v", err)
	}
	// Inactive provider.
	addProvider(st, provider, false)
	if err := engine.Rate(alice, provider, 4); !errors.Is(err, ErrProviderNotRatable) {
		t.Fatalf("expected ErrProviderNotRatable for inactive, got %v", err)
	}
	// Inactive student.
	addProvider(st, provider, true)
	err := engine.Rate(testAddr(0x09), provider, 4)
	if !errors.Is(err, registry.ErrStudentNotActive) {
		t.Fatalf("expected student guard error, got %v", err)
	}
	if !errors.Is(err, common.ErrAuthorization) {
		t.Fatalf("expected authorization class, got %v", err)
	}
}
