package store

import (
	"slices"
	"sync"
)

// Memory is the in-process KV engine. It backs STORE_DRIVER=memory and the
// test fakes; nothing survives a restart.
type Memory struct {
	mu      sync.RWMutex
	regions map[string]map[uint64][]byte
}

func NewMemory() *Memory {
	regions := make(map[string]map[uint64][]byte, len(Regions))
	for _, r := range Regions {
		regions[r] = make(map[uint64][]byte)
	}
	return &Memory{regions: regions}
}

// ensure must be called with the write lock held.
func (m *Memory) ensure(name string) map[uint64][]byte {
	if r, ok := m.regions[name]; ok {
		return r
	}
	r := make(map[uint64][]byte)
	m.regions[name] = r
	return r
}

func (m *Memory) Get(region string, key uint64) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.regions[region][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) Insert(region string, key uint64, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(region)[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Remove(region string, key uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.regions[region], key)
	return nil
}

func (m *Memory) Iterate(region string, fn func(key uint64, value []byte) (bool, error)) error {
	m.mu.RLock()
	r := m.regions[region]
	keys := make([]uint64, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = slices.Clone(r[k])
	}
	m.mu.RUnlock()

	for i, k := range keys {
		cont, err := fn(k, values[i])
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
