package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopStep(id string) Step {
	return NewStep(id, id, nil, nil, func(context.Context) error { return nil })
}

func newTestRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, id := range ids {
		require.NoError(t, r.Register(noopStep(id)))
	}
	return r
}

func TestRegistryRegister(t *testing.T) {
	r := newTestRegistry(t, "a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, r.IDs())

	step, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "b", step.ID())

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicatesAndNil(t *testing.T) {
	r := newTestRegistry(t, "a")
	assert.Error(t, r.Register(noopStep("a")))
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(noopStep("")))
}

func TestRegistryRange(t *testing.T) {
	r := newTestRegistry(t, "a", "b", "c", "d")

	tests := []struct {
		name     string
		from, to string
		want     []string
		wantErr  bool
	}{
		{name: "full range by default", want: []string{"a", "b", "c", "d"}},
		{name: "inclusive middle range", from: "b", to: "c", want: []string{"b", "c"}},
		{name: "single step", from: "c", to: "c", want: []string{"c"}},
		{name: "open-ended tail", from: "c", want: []string{"c", "d"}},
		{name: "open-ended head", to: "b", want: []string{"a", "b"}},
		{name: "unknown from", from: "x", wantErr: true},
		{name: "unknown to", to: "x", wantErr: true},
		{name: "reversed range", from: "d", to: "a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := r.Range(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, len(steps))
			for i, s := range steps {
				ids[i] = s.ID()
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRangeOnEmptyRegistry(t *testing.T) {
	_, err := NewRegistry().Range("", "")
	assert.Error(t, err)
}
