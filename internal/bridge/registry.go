package bridge

import (
	"sort"
	"sync"
)

// DefaultKey addresses the single-bridge case. Multi-target scenes
// register additional bridges under their own keys.
const DefaultKey = "default"

// Registry holds named bridge instances. A missing key behaves exactly
// like a fully absent single bridge: lookups resolve to nil and waits
// report BridgeMissing. Instances never share poll state.
type Registry struct {
	mu      sync.RWMutex
	bridges map[string]Bridge
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bridges: make(map[string]Bridge)}
}

// Register adds or replaces the bridge under key. An empty key registers
// the default instance.
func (r *Registry) Register(key string, b Bridge) {
	if key == "" {
		key = DefaultKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bridges[key] = b
}

// Unregister removes the bridge under key.
func (r *Registry) Unregister(key string) {
	if key == "" {
		key = DefaultKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bridges, key)
}

// Get returns the bridge under key, or nil when absent.
func (r *Registry) Get(key string) Bridge {
	if key == "" {
		key = DefaultKey
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bridges[key]
}

// Keys returns the registered instance keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.bridges))
	for k := range r.bridges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
