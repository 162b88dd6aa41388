package module

import (
	"maps"
	"slices"
	"sync"
)

// ports published by the modules a binary composed, keyed by module name
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register publishes ports under name; registering a name again replaces it
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Registered reports the module names published so far, sorted
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(reg))
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
