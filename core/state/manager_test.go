package state

import (
	"bytes"
	"math/big"
	"testing"

	"campusledger/core/types"
	"campusledger/native/catalog"
	"campusledger/native/registry"
	"campusledger/native/tier"
	"campusledger/storage"
)

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func TestOverlayReadYourWrites(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	key := []byte("campus/test/key")

	if err := manager.KVPut(key, uint64(42)); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got uint64
	ok, err := manager.KVGet(key, &got)
	if err != nil || !ok {
		t.Fatalf("get before commit: ok=%v err=%v", ok, err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestOverlayResetDiscards(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	key := []byte("campus/test/key")

	if err := manager.KVPut(key, uint64(42)); err != nil {
		t.Fatalf("put: %v", err)
	}
	manager.AppendEvent(&types.Event{Type: "test"})
	manager.Reset()

	ok, err := manager.KVGet(key, nil)
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if ok {
		t.Fatal("reset kept the pending write")
	}
	if len(manager.Events()) != 0 {
		t.Fatal("reset kept buffered events")
	}
}

func TestOverlayCommitPersists(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	key := []byte("campus/test/key")

	if err := manager.KVPut(key, uint64(42)); err != nil {
		t.Fatalf("put: %v", err)
	}
	manager.AppendEvent(&types.Event{Type: "test"})
	if len(manager.Events()) != 1 {
		t.Fatal("event not buffered")
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(manager.Events()) != 0 {
		t.Fatal("commit kept buffered events")
	}

	// A fresh manager over the same database sees the committed value.
	fresh := NewManager(db)
	var got uint64
	ok, err := fresh.KVGet(key, &got)
	if err != nil || !ok || got != 42 {
		t.Fatalf("reload: ok=%v got=%d err=%v", ok, got, err)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	alice := testAddr(0x01)

	acc, err := manager.GetAccount(alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Balance.Sign() != 0 {
		t.Fatalf("unknown account balance = %s, want 0", acc.Balance)
	}

	acc.Balance = big.NewInt(12345)
	if err := manager.PutAccount(alice, acc); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	reloaded, err := manager.GetAccount(alice)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Balance.Int64() != 12345 {
		t.Fatalf("balance = %s, want 12345", reloaded.Balance)
	}
}

func TestStudentRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	alice := testAddr(0x01)

	if _, ok, err := manager.StudentGet(alice); err != nil || ok {
		t.Fatalf("unknown student: ok=%v err=%v", ok, err)
	}
	record := &registry.Student{Active: true, TotalSpent: big.NewInt(900), Tier: tier.Silver}
	if err := manager.StudentPut(alice, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	reloaded, ok, err := manager.StudentGet(alice)
	if err != nil || !ok {
		t.Fatalf("reload: ok=%v err=%v", ok, err)
	}
	if !reloaded.Active || reloaded.TotalSpent.Int64() != 900 || reloaded.Tier != tier.Silver {
		t.Fatalf("round trip mangled record: %+v", reloaded)
	}
}

func TestServiceRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	provider := testAddr(0x03)

	entry := &catalog.Service{Name: "Laundry", Price: big.NewInt(100), Discount: 25, Active: true}
	if err := manager.ServicePut(provider, 7, entry); err != nil {
		t.Fatalf("put: %v", err)
	}
	reloaded, ok, err := manager.ServiceGet(provider, 7)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if reloaded.Name != "Laundry" || reloaded.Price.Int64() != 100 || reloaded.Discount != 25 || !reloaded.Active {
		t.Fatalf("round trip mangled entry: %+v", reloaded)
	}
	// Ids are part of the key: a different id is a different entry.
	if _, ok, err := manager.ServiceGet(provider, 8); err != nil || ok {
		t.Fatalf("neighbouring id resolved: ok=%v err=%v", ok, err)
	}
}

func TestRatingMarker(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	alice, provider := testAddr(0x01), testAddr(0x03)

	seen, err := manager.RatingSeen(alice, provider)
	if err != nil || seen {
		t.Fatalf("fresh pair: seen=%v err=%v", seen, err)
	}
	if err := manager.MarkRated(alice, provider); err != nil {
		t.Fatalf("mark: %v", err)
	}
	seen, err = manager.RatingSeen(alice, provider)
	if err != nil || !seen {
		t.Fatalf("marked pair: seen=%v err=%v", seen, err)
	}
	// The marker is directional per pair.
	if seen, _ := manager.RatingSeen(provider, alice); seen {
		t.Fatal("reversed pair reads as rated")
	}
}

func TestFeeBps(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	bps, err := manager.FeeBps()
	if err != nil || bps != 0 {
		t.Fatalf("unset fee = %d, %v; want 0, nil", bps, err)
	}
	if err := manager.SetFeeBps(250); err != nil {
		t.Fatalf("set: %v", err)
	}
	if bps, err = manager.FeeBps(); err != nil || bps != 250 {
		t.Fatalf("fee = %d, %v; want 250, nil", bps, err)
	}
}
