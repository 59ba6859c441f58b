// Package operations orchestrates the build: an ordered step registry, a
// sequential runner with per-step tracing and timeouts, and the run log
// that records every invocation and the latest fully-successful run.
package operations

import "context"

// Step is one unit of the build. Steps declare the artifacts they read and
// write so the registry order can be audited against the data flow.
type Step interface {
	ID() string
	Name() string
	RequiredInputs() []string
	ProducedOutputs() []string
	Execute(ctx context.Context) error
}

// funcStep adapts a plain function into a Step
type funcStep struct {
	id      string
	name    string
	inputs  []string
	outputs []string
	run     func(ctx context.Context) error
}

// NewStep builds a Step from a function
func NewStep(id, name string, inputs, outputs []string, run func(ctx context.Context) error) Step {
	return &funcStep{id: id, name: name, inputs: inputs, outputs: outputs, run: run}
}

func (s *funcStep) ID() string                        { return s.id }
func (s *funcStep) Name() string                      { return s.name }
func (s *funcStep) RequiredInputs() []string          { return s.inputs }
func (s *funcStep) ProducedOutputs() []string         { return s.outputs }
func (s *funcStep) Execute(ctx context.Context) error { return s.run(ctx) }
