package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"campusledger/core/types"
	"campusledger/storage"
)

var kvPrefix = []byte("kv:")

func kvKey(key []byte) []byte {
	buf := make([]byte, len(kvPrefix)+len(key))
	copy(buf, kvPrefix)
	copy(buf[len(kvPrefix):], key)
	return ethcrypto.Keccak256(buf)
}

// Manager mediates all reads and writes between the engines and the backing
// key-value store. Writes accumulate in a pending overlay together with the
// events appended during the operation; Commit flushes both, Reset discards
// both. One operation therefore either applies entirely or not at all.
//
// Manager is not safe for concurrent use; the node serializes operations.
type Manager struct {
	db      storage.Database
	pending map[string][]byte
	events  []*types.Event
}

// NewManager constructs a state manager over the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		pending: make(map[string][]byte),
	}
}

// KVPut stores the provided value under the supplied key using RLP encoding.
// The key is hashed with keccak256 before hitting the store. The write lands
// in the pending overlay until Commit.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.pending[string(kvKey(key))] = encoded
	return nil
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. Pending writes shadow committed state. The
// boolean return value indicates whether the key existed.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	hashed := kvKey(key)
	data, ok := m.pending[string(hashed)]
	if !ok {
		stored, err := m.db.Get(hashed)
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		data = stored
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// AppendEvent buffers a typed event for emission after the operation commits.
func (m *Manager) AppendEvent(evt *types.Event) {
	if evt == nil {
		return
	}
	m.events = append(m.events, evt)
}

// Events returns the events buffered by the current operation.
func (m *Manager) Events() []*types.Event {
	out := make([]*types.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Commit flushes the pending overlay to the database and clears the event
// buffer. The buffered events should be collected via Events beforehand.
func (m *Manager) Commit() error {
	for key, value := range m.pending {
		if err := m.db.Put([]byte(key), value); err != nil {
			return err
		}
	}
	m.pending = make(map[string][]byte)
	m.events = nil
	return nil
}

// Reset discards all pending writes and buffered events, rolling the
// speculative operation back.
func (m *Manager) Reset() {
	m.pending = make(map[string][]byte)
	m.events = nil
}
