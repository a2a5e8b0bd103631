package destination

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"lazymaint/internal/maint"
)

// MemoryDestination is an in-memory implementation of the Destination
// interface, useful for testing. Safe for concurrent use.
type MemoryDestination struct {
	objects map[string][]byte
	mu      sync.RWMutex

	// FailPut, when set, makes every Put fail. Lets tests exercise the
	// transfer-failure path.
	FailPut bool
	// FailGet, when set, makes every Get fail.
	FailGet bool
}

// NewMemoryDestination creates a new in-memory destination.
func NewMemoryDestination() *MemoryDestination {
	return &MemoryDestination{objects: make(map[string][]byte)}
}

// Put stores a named object.
func (m *MemoryDestination) Put(name string, r io.Reader, size int64) error {
	if m.FailPut {
		return fmt.Errorf("put failed (simulated)")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

// Get retrieves a named object.
func (m *MemoryDestination) Get(name string, w io.Writer) error {
	if m.FailGet {
		return fmt.Errorf("get failed (simulated)")
	}
	m.mu.RLock()
	data, ok := m.objects[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("object not found: %s", name)
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

// Exists reports whether a named object is present.
func (m *MemoryDestination) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[name]
	return ok, nil
}

// ValidateSetup always succeeds for the in-memory destination.
func (m *MemoryDestination) ValidateSetup() error { return nil }

// Object returns a stored object's bytes, for test assertions.
func (m *MemoryDestination) Object(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	return data, ok
}

// SetObject stores raw bytes directly, for test setup.
func (m *MemoryDestination) SetObject(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = append([]byte(nil), data...)
}

// Compile-time check that MemoryDestination implements maint.Destination
var _ maint.Destination = (*MemoryDestination)(nil)
