package repository

import (
	"sync"
)

// KeyValueStore is the persistence port used by the cart and favorites store.
// Values are opaque strings (JSON documents in practice).
type KeyValueStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key string, value string) (err error)
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (value string, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found = m.values[key]
	return
}

func (m *MemoryStore) Set(key string, value string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return
}

type namespacedStore struct {
	kv     KeyValueStore
	prefix string
}

// Namespaced prefixes every key with prefix, so several sessions can share
// one backing store.
func Namespaced(kv KeyValueStore, prefix string) KeyValueStore {
	return &namespacedStore{kv: kv, prefix: prefix}
}

func (n *namespacedStore) Get(key string) (string, bool, error) {
	return n.kv.Get(n.prefix + key)
}

func (n *namespacedStore) Set(key string, value string) error {
	return n.kv.Set(n.prefix+key, value)
}
