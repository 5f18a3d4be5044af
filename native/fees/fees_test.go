package fees

import (
	"errors"
	"math/big"
	"testing"

	"campusledger/core/types"
	"campusledger/native/common"
)

type mockState struct {
	bps    uint32
	events []*types.Event
}

func (m *mockState) FeeBps() (uint32, error)      { return m.bps, nil }
func (m *mockState) SetFeeBps(bps uint32) error   { m.bps = bps; return nil }
func (m *mockState) AppendEvent(evt *types.Event) { m.events = append(m.events, evt) }

func TestSetWithinBound(t *testing.T) {
	st := &mockState{}
	policy := NewPolicy()
	policy.SetState(st)

	if err := policy.Set(MaxBps); err != nil {
		t.Fatalf("set max bps: %v", err)
	}
	got, err := policy.Bps()
	if err != nil {
		t.Fatalf("read bps: %v", err)
	}
	if got != MaxBps {
		t.Fatalf("bps = %d, want %d", got, MaxBps)
	}
	if len(st.events) != 1 || st.events[0].Type != TypeFeeUpdated {
		t.Fatalf("expected a single %s event, got %+v", TypeFeeUpdated, st.events)
	}
}

func TestSetAboveBound(t *testing.T) {
	st := &mockState{bps: 250}
	policy := NewPolicy()
	policy.SetState(st)

	err := policy.Set(MaxBps + 1)
	if !errors.Is(err, ErrBpsOutOfRange) {
		t.Fatalf("expected ErrBpsOutOfRange, got %v", err)
	}
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation class, got %v", err)
	}
	if st.bps != 250 {
		t.Fatalf("bps mutated on rejected set: %d", st.bps)
	}
	if len(st.events) != 0 {
		t.Fatalf("rejected set emitted events: %+v", st.events)
	}
}

func TestApply(t *testing.T) {
	cases := []struct {
		name    string
		gross   int64
		bps     uint32
		wantFee int64
		wantNet int64
	}{
		{"one percent of 100", 100, 100, 1, 99},
		{"max fee", 1000, MaxBps, 100, 900},
		{"zero rate", 500, 0, 0, 500},
		{"truncates small fee to zero", 99, 100, 0, 99},
		{"zero gross", 0, 500, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, net := Apply(big.NewInt(tc.gross), tc.bps)
			if fee.Int64() != tc.wantFee {
				t.Fatalf("fee = %s, want %d", fee, tc.wantFee)
			}
			if net.Int64() != tc.wantNet {
				t.Fatalf("net = %s, want %d", net, tc.wantNet)
			}
		})
	}
}

func TestApplyNilGross(t *testing.T) {
	fee, net := Apply(nil, 100)
	if fee.Sign() != 0 || net.Sign() != 0 {
		t.Fatalf("nil gross yielded fee=%s net=%s", fee, net)
	}
}
