package operations

import (
	"fmt"
	"sync"
)

// Registry holds the registered steps in registration order, which is the
// execution order.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string
}

// NewRegistry creates an empty step registry
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step. Duplicate ids are a programming error.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}
	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by id
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	step, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("step with ID %s not found", id)
	}
	return step, nil
}

// IDs returns the step ids in execution order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Range returns the steps from id from through id to, inclusive. Empty ids
// default to the first and last registered step.
func (r *Registry) Range(from, to string) ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("no steps registered")
	}
	if from == "" {
		from = r.order[0]
	}
	if to == "" {
		to = r.order[len(r.order)-1]
	}

	fromIdx, toIdx := -1, -1
	for i, id := range r.order {
		if id == from {
			fromIdx = i
		}
		if id == to {
			toIdx = i
		}
	}
	if fromIdx == -1 {
		return nil, fmt.Errorf("unknown step %s", from)
	}
	if toIdx == -1 {
		return nil, fmt.Errorf("unknown step %s", to)
	}
	if fromIdx > toIdx {
		return nil, fmt.Errorf("step %s comes after %s", from, to)
	}

	steps := make([]Step, 0, toIdx-fromIdx+1)
	for _, id := range r.order[fromIdx : toIdx+1] {
		steps = append(steps, r.steps[id])
	}
	return steps, nil
}
