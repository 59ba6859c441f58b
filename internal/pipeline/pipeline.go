// Package pipeline contains the build stages that turn the extraction
// collaborator's raw and derived files into the processed analytics
// artifacts. Stages communicate only through artifacts on disk; each stage
// reads its declared inputs, computes in memory, sorts, and writes. Output
// ordering is deterministic so a re-run over unchanged inputs is
// byte-identical.
package pipeline

import (
	"log/slog"
	"sort"

	"matchpulse/internal/config"
	"matchpulse/internal/dataset"
)

// Env carries the shared dependencies every stage needs
type Env struct {
	Cfg    *config.Config
	Paths  *config.Paths
	Store  *dataset.Store
	Logger *slog.Logger
}

// NewEnv wires a stage environment
func NewEnv(cfg *config.Config, paths *config.Paths, store *dataset.Store, logger *slog.Logger) *Env {
	return &Env{Cfg: cfg, Paths: paths, Store: store, Logger: logger}
}

func fptr(v float64) *float64 { return &v }

func iptr(v int64) *int64 { return &v }

func sptr(v string) *string { return &v }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// optSum accumulates an optional stat: Total is meaningful only once at
// least one non-nil observation was added.
type optSum struct {
	Total float64
	Seen  bool
}

func (s *optSum) Add(v *float64) {
	if v == nil {
		return
	}
	s.Total += *v
	s.Seen = true
}

func (s *optSum) Ptr() *float64 {
	if !s.Seen {
		return nil
	}
	v := s.Total
	return &v
}

// optMean accumulates an optional stat mean over non-nil observations
type optMean struct {
	total float64
	n     int
}

func (m *optMean) Add(v *float64) {
	if v == nil {
		return
	}
	m.total += *v
	m.n++
}

func (m *optMean) Ptr() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.total / float64(m.n)
	return &v
}

func (m *optMean) Values() (sum float64, n int) { return m.total, m.n }

// sortedKeys returns map keys in sorted order for deterministic iteration
func sortedKeys[K interface {
	~string | ~int64
}, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
