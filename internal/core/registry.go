package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ExportFunc persists the valid records of an import and returns how many
// rows were written.
type ExportFunc func(ctx context.Context, res *Result) (int64, error)

// RollbackFunc removes the rows an earlier export wrote for importID and
// returns how many were deleted.
type RollbackFunc func(ctx context.Context, importID uuid.UUID) (int64, error)

// Definition is a named schema offered by the import service.
type Definition struct {
	Key      string       // Unique identifier: "product_prices"
	Group    string       // Data source grouping: "Catalog"
	Label    string       // Display name: "Price List"
	Schema   *Schema      // Column contract
	Export   ExportFunc   // Optional: translate and store valid records
	Rollback RollbackFunc // Optional: undo an export by import id
}

// Registry resolves schema definitions by key. A Registry is an explicit
// value owned by the caller; there is no process-wide instance.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition.
// Returns an error if the key is empty or already registered.
func (r *Registry) Register(def Definition) error {
	if def.Key == "" {
		return fmt.Errorf("register: definition has no key")
	}
	if def.Schema == nil {
		return fmt.Errorf("register %s: definition has no schema", def.Key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Key]; exists {
		return fmt.Errorf("register %s: already registered", def.Key)
	}
	r.defs[def.Key] = def
	return nil
}

// Get returns a definition by key.
func (r *Registry) Get(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[key]
	return def, ok
}

// Lookup is like Get but returns ErrSchemaNotFound for unknown keys.
func (r *Registry) Lookup(key string) (Definition, error) {
	def, ok := r.Get(key)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
	}
	return def, nil
}

// All returns all definitions sorted by group then key.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})
	return result
}

// Groups returns all unique group names, sorted.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range r.defs {
		seen[def.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
