package state

import (
	"fmt"

	"campusledger/native/catalog"
	"campusledger/native/registry"
)

var (
	studentPrefix  = []byte("campus/student/")
	providerPrefix = []byte("campus/provider/")
	servicePrefix  = []byte("campus/service/")
	ratingPrefix   = []byte("campus/rating/")
	feeBpsKey      = []byte("campus/fees/bps")
)

func studentKey(id [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", studentPrefix, id))
}

func providerKey(id [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", providerPrefix, id))
}

func serviceKey(provider [20]byte, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%x/%d", servicePrefix, provider, id))
}

func ratingKey(student, provider [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x/%x", ratingPrefix, student, provider))
}

// StudentGet loads the student record stored for the identity.
func (m *Manager) StudentGet(id [20]byte) (*registry.Student, bool, error) {
	var student registry.Student
	ok, err := m.KVGet(studentKey(id), &student)
	if err != nil || !ok {
		return nil, false, err
	}
	student.EnsureDefaults()
	return &student, true, nil
}

// StudentPut persists the student record for the identity.
func (m *Manager) StudentPut(id [20]byte, student *registry.Student) error {
	if student == nil {
		return fmt.Errorf("state: student must not be nil")
	}
	student.EnsureDefaults()
	return m.KVPut(studentKey(id), student)
}

// ProviderGet loads the provider record stored for the identity.
func (m *Manager) ProviderGet(id [20]byte) (*registry.Provider, bool, error) {
	var provider registry.Provider
	ok, err := m.KVGet(providerKey(id), &provider)
	if err != nil || !ok {
		return nil, false, err
	}
	provider.EnsureDefaults()
	return &provider, true, nil
}

// ProviderPut persists the provider record for the identity.
func (m *Manager) ProviderPut(id [20]byte, provider *registry.Provider) error {
	if provider == nil {
		return fmt.Errorf("state: provider must not be nil")
	}
	provider.EnsureDefaults()
	return m.KVPut(providerKey(id), provider)
}

// ServiceGet loads the catalog entry stored under (provider, id).
func (m *Manager) ServiceGet(provider [20]byte, id uint64) (*catalog.Service, bool, error) {
	var service catalog.Service
	ok, err := m.KVGet(serviceKey(provider, id), &service)
	if err != nil || !ok {
		return nil, false, err
	}
	service.EnsureDefaults()
	return &service, true, nil
}

// ServicePut persists the catalog entry under (provider, id), silently
// overwriting any previous entry for the same key.
func (m *Manager) ServicePut(provider [20]byte, id uint64, service *catalog.Service) error {
	if service == nil {
		return fmt.Errorf("state: service must not be nil")
	}
	service.EnsureDefaults()
	return m.KVPut(serviceKey(provider, id), service)
}

// RatingSeen reports whether the (student, provider) pair has already rated.
func (m *Manager) RatingSeen(student, provider [20]byte) (bool, error) {
	return m.KVGet(ratingKey(student, provider), nil)
}

// MarkRated records the write-once rating marker for the pair.
func (m *Manager) MarkRated(student, provider [20]byte) error {
	return m.KVPut(ratingKey(student, provider), true)
}

// FeeBps returns the stored platform fee rate, zero when never set.
func (m *Manager) FeeBps() (uint32, error) {
	var bps uint32
	if _, err := m.KVGet(feeBpsKey, &bps); err != nil {
		return 0, err
	}
	return bps, nil
}

// SetFeeBps stores the platform fee rate.
func (m *Manager) SetFeeBps(bps uint32) error {
	return m.KVPut(feeBpsKey, bps)
}
