package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Adapter defines one way of obtaining the ECDICT CSV from a public location.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "ecdict-csv").
	ID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL used for seeding the database.
	DefaultURL() string
	// License returns the license identifier of the dataset.
	License() string
	// Fetch downloads sourceURL into destDir and returns the path and size
	// of the extracted CSV file.
	Fetch(ctx context.Context, sourceURL, destDir string) (path string, size int64, err error)
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// Resolve returns the adapters for ids, in the given order.
func Resolve(ids []string) ([]Adapter, error) {
	result := make([]Adapter, 0, len(ids))
	for _, id := range ids {
		a, err := Get(id)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
