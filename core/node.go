package core

import (
	"log/slog"
	"math/big"
	"sync"

	"campusledger/config"
	"campusledger/core/events"
	"campusledger/core/state"
	"campusledger/core/types"
	"campusledger/native/airdrop"
	"campusledger/native/catalog"
	"campusledger/native/fees"
	"campusledger/native/registry"
	"campusledger/native/reputation"
	"campusledger/native/settlement"
	"campusledger/native/token"
	"campusledger/observability"
	"campusledger/storage"
)

var genesisAppliedKey = []byte("campus/genesis")

type ledgerEvent struct {
	evt *types.Event
}

func (e ledgerEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e ledgerEvent) Event() *types.Event { return e.evt }

// Node is the single entry point for every ledger operation. A mutex
// serializes calls so each operation observes a fully committed predecessor,
// and the state manager's overlay makes each call all-or-nothing: any error
// resets every intermediate write and buffered event.
type Node struct {
	mu      sync.Mutex
	log     *slog.Logger
	state   *state.Manager
	emitter events.Emitter

	registry   *registry.Engine
	feePolicy  *fees.Policy
	catalog    *catalog.Engine
	reputation *reputation.Engine
	settlement *settlement.Engine
	airdrop    *airdrop.Engine
	token      *token.Engine
}

// NewNode wires the engines over a shared state manager and applies the
// genesis records on first boot.
func NewNode(db storage.Database, cfg *config.Config, logger *slog.Logger, emitter events.Emitter) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	manager := state.NewManager(db)

	reg := registry.NewEngine(cfg.Admin(), cfg.University())
	reg.SetState(manager)

	tok := token.NewEngine()
	tok.SetState(manager)

	policy := fees.NewPolicy()
	policy.SetState(manager)

	cat := catalog.NewEngine(reg)
	cat.SetState(manager)

	rep := reputation.NewEngine(reg)
	rep.SetState(manager)

	settle := settlement.NewEngine(reg, tok, cfg.University())
	settle.SetState(manager)

	drop := airdrop.NewEngine(reg, tok)
	drop.SetState(manager)

	node := &Node{
		log:        logger,
		state:      manager,
		emitter:    emitter,
		registry:   reg,
		feePolicy:  policy,
		catalog:    cat,
		reputation: rep,
		settlement: settle,
		airdrop:    drop,
		token:      tok,
	}
	if err := node.applyGenesis(cfg); err != nil {
		return nil, err
	}
	return node, nil
}

// execute runs a mutating operation under the node lock, committing on
// success and resetting the overlay on failure.
func (n *Node) execute(op string, fn func() error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := fn()
	observability.LedgerMetrics().RecordOperation(op, err)
	if err != nil {
		n.state.Reset()
		n.log.Warn("operation rejected", "op", op, "err", err)
		return err
	}
	emitted := n.state.Events()
	if err := n.state.Commit(); err != nil {
		n.state.Reset()
		n.log.Error("commit failed", "op", op, "err", err)
		return err
	}
	for _, evt := range emitted {
		n.emitter.Emit(ledgerEvent{evt: evt})
	}
	n.log.Debug("operation committed", "op", op, "events", len(emitted))
	return nil
}

// read runs a read-only operation under the node lock.
func (n *Node) read(fn func() error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	defer n.state.Reset()
	return fn()
}

func (n *Node) applyGenesis(cfg *config.Config) error {
	return n.execute("genesis", func() error {
		applied, err := n.state.KVGet(genesisAppliedKey, nil)
		if err != nil || applied {
			return err
		}
		admin := n.registry.Admin()
		if err := n.feePolicy.Set(cfg.GenesisFeeBps); err != nil {
			return err
		}
		for _, raw := range cfg.GenesisStudents {
			addr, err := types.ParseAddress(raw)
			if err != nil {
				return err
			}
			if err := n.registry.RegisterStudent(admin, addr); err != nil {
				return err
			}
		}
		for _, provider := range cfg.GenesisProviders {
			addr, err := types.ParseAddress(provider.Address)
			if err != nil {
				return err
			}
			if err := n.registry.RegisterProvider(admin, addr, provider.Name, provider.Category); err != nil {
				return err
			}
		}
		return n.state.KVPut(genesisAppliedKey, true)
	})
}

// --- token entry points ---

// Mint issues coin to an active student. Admin only.
func (n *Node) Mint(caller, to [20]byte, amount *big.Int) error {
	return n.execute("mint", func() error {
		if err := n.registry.RequireAdmin(caller); err != nil {
			return err
		}
		if _, err := n.registry.RequireActiveStudent(to); err != nil {
			return err
		}
		return n.token.Mint(to, amount)
	})
}

// Burn destroys coin from the caller's own balance.
func (n *Node) Burn(caller [20]byte, amount *big.Int) error {
	return n.execute("burn", func() error {
		return n.token.Burn(caller, amount)
	})
}

// Transfer moves coin from the caller to an active student.
func (n *Node) Transfer(caller, to [20]byte, amount *big.Int) error {
	return n.execute("transfer", func() error {
		if _, err := n.registry.RequireActiveStudent(to); err != nil {
			return err
		}
		return n.token.Transfer(caller, to, amount)
	})
}

// BalanceOf reports the balance held by an address.
func (n *Node) BalanceOf(addr [20]byte) (*big.Int, error) {
	var balance *big.Int
	err := n.read(func() error {
		var err error
		balance, err = n.token.BalanceOf(addr)
		return err
	})
	return balance, err
}

// --- registry entry points ---

func (n *Node) AddStudent(caller, student [20]byte) error {
	return n.execute("addStudent", func() error {
		return n.registry.RegisterStudent(caller, student)
	})
}

func (n *Node) RemoveStudent(caller, student [20]byte) error {
	return n.execute("removeStudent", func() error {
		return n.registry.DeactivateStudent(caller, student)
	})
}

func (n *Node) AddServiceProvider(caller, provider [20]byte, name, category string) error {
	return n.execute("addServiceProvider", func() error {
		return n.registry.RegisterProvider(caller, provider, name, category)
	})
}

func (n *Node) UpdateServiceProvider(caller, provider [20]byte, name, category string, active bool) error {
	return n.execute("updateServiceProvider", func() error {
		return n.registry.UpdateProvider(caller, provider, name, category, active)
	})
}

func (n *Node) RemoveServiceProvider(caller, provider [20]byte) error {
	return n.execute("removeServiceProvider", func() error {
		return n.registry.DeactivateProvider(caller, provider)
	})
}

// Student returns the stored student record.
func (n *Node) Student(id [20]byte) (*registry.Student, bool, error) {
	var (
		student *registry.Student
		ok      bool
	)
	err := n.read(func() error {
		var err error
		student, ok, err = n.state.StudentGet(id)
		return err
	})
	return student, ok, err
}

// Provider returns the stored provider record.
func (n *Node) Provider(id [20]byte) (*registry.Provider, bool, error) {
	var (
		provider *registry.Provider
		ok       bool
	)
	err := n.read(func() error {
		var err error
		provider, ok, err = n.state.ProviderGet(id)
		return err
	})
	return provider, ok, err
}

// --- catalog entry points ---

func (n *Node) AddService(caller [20]byte, serviceID uint64, name string, price *big.Int) error {
	return n.execute("addService", func() error {
		return n.catalog.AddOrReplaceService(caller, serviceID, name, price)
	})
}

func (n *Node) RemoveService(caller [20]byte, serviceID uint64) error {
	return n.execute("removeService", func() error {
		return n.catalog.DeactivateService(caller, serviceID)
	})
}

func (n *Node) UpdateService(caller [20]byte, serviceID uint64, name string, price *big.Int, active bool) error {
	return n.execute("updateService", func() error {
		return n.catalog.UpdateService(caller, serviceID, name, price, active)
	})
}

func (n *Node) SetServiceDiscount(caller [20]byte, serviceID uint64, pct uint32) error {
	return n.execute("setServiceDiscount", func() error {
		return n.catalog.SetDiscount(caller, serviceID, pct)
	})
}

// GetService returns the catalog entry, zero-valued when absent.
func (n *Node) GetService(provider [20]byte, serviceID uint64) (*catalog.Service, error) {
	var service *catalog.Service
	err := n.read(func() error {
		var err error
		service, err = n.catalog.GetService(provider, serviceID)
		return err
	})
	return service, err
}

// --- fee policy entry points ---

// SetFeePercentage updates the platform fee. Admin only.
func (n *Node) SetFeePercentage(caller [20]byte, bps uint32) error {
	return n.execute("setFeePercentage", func() error {
		if err := n.registry.RequireAdmin(caller); err != nil {
			return err
		}
		return n.feePolicy.Set(bps)
	})
}

// FeePercentage reads the current platform fee in basis points.
func (n *Node) FeePercentage() (uint32, error) {
	var bps uint32
	err := n.read(func() error {
		var err error
		bps, err = n.feePolicy.Bps()
		return err
	})
	return bps, err
}

// --- settlement, reputation, airdrop entry points ---

// PayForService settles a service purchase by the calling student.
func (n *Node) PayForService(caller, provider [20]byte, serviceID uint64) error {
	return n.execute("payForService", func() error {
		if err := n.settlement.PayForService(caller, provider, serviceID); err != nil {
			return err
		}
		for _, evt := range n.state.Events() {
			if evt.Type == settlement.TypeServicePaid {
				if gross, ok := new(big.Int).SetString(evt.Attributes["amount"], 10); ok {
					observability.LedgerMetrics().RecordSettlement(gross)
				}
			}
		}
		return nil
	})
}

// RateProvider records a one-time rating by the calling student.
func (n *Node) RateProvider(caller, provider [20]byte, rating uint32) error {
	return n.execute("rateProvider", func() error {
		return n.reputation.Rate(caller, provider, rating)
	})
}

// ProviderAverageRating returns the truncating average and count.
func (n *Node) ProviderAverageRating(provider [20]byte) (uint64, uint64, error) {
	var avg, count uint64
	err := n.read(func() error {
		var err error
		avg, count, err = n.reputation.AverageRating(provider)
		return err
	})
	return avg, count, err
}

// AirdropStudents mints tier-scaled amounts to the active recipients. Admin
// only.
func (n *Node) AirdropStudents(caller [20]byte, recipients [][20]byte, baseAmount *big.Int) error {
	return n.execute("airdropStudents", func() error {
		return n.airdrop.Airdrop(caller, recipients, baseAmount)
	})
}
