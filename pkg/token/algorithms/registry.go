package algorithms

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	algorithms = make(map[string]Algorithm)
)

// Register adds an algorithm to the registry
// Called by algorithm implementations in their init() functions
// Registering a name twice replaces the earlier algorithm
func Register(alg Algorithm) {
	registryMu.Lock()
	defer registryMu.Unlock()
	algorithms[alg.Name()] = alg
}

// Get retrieves an algorithm from the registry by name.
// Names are case-sensitive; "none" is lower case.
// Returns ErrUnsupportedAlgorithm if algorithm not found
func Get(name string) (Algorithm, error) {
	registryMu.RLock()
	alg, exists := algorithms[name]
	registryMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

// List returns all registered algorithm names in sorted order
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
