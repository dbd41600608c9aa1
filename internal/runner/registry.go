package runner

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered runners keyed by name. It lets the execution
// backend be swapped (simulated now, a real workflow engine later) without
// touching the engine or the store.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates an empty runner registry.
func NewRegistry() *Registry {
	return &Registry{
		runners: make(map[string]Runner),
	}
}

// Register adds a runner to the registry under the given name.
func (r *Registry) Register(name string, rn Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[name] = rn
}

// Resolve returns the runner registered under the given name, or an error if
// none is registered.
func (r *Registry) Resolve(name string) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rn, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("runner %q is not registered", name)
	}
	return rn, nil
}

// List returns information about all registered runners, sorted by name for
// a stable API response.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.runners))
	for _, rn := range r.runners {
		infos = append(infos, rn.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}
