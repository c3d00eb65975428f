package chain

import (
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Generator proposes next actions from st, given the chain that led to it.
// Implementations must be free of side effects.
type Generator interface {
	Generate(st State, w *world.Model, path Path) []Pair
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(st State, w *world.Model, path Path) []Pair

// Generate implements Generator.
func (f GeneratorFunc) Generate(st State, w *world.Model, path Path) []Pair {
	return f(st, w, path)
}

// lengthFilter runs g only while lo <= len(path) <= hi. hi < 0 means no
// upper bound.
type lengthFilter struct {
	g      Generator
	lo, hi int
}

func (f lengthFilter) Generate(st State, w *world.Model, path Path) []Pair {
	n := len(path)
	if n < f.lo || (f.hi >= 0 && n > f.hi) {
		return nil
	}
	return f.g.Generate(st, w, path)
}

// MinLength runs g only on chains already holding at least n actions.
func MinLength(n int, g Generator) Generator { return lengthFilter{g: g, lo: n, hi: -1} }

// MaxLength runs g only on chains holding at most n actions. MaxLength(0, g)
// restricts g to the first action.
func MaxLength(n int, g Generator) Generator { return lengthFilter{g: g, lo: 0, hi: n} }

// RangeLength combines MinLength and MaxLength.
func RangeLength(lo, hi int, g Generator) Generator {
	return lengthFilter{g: g, lo: lo, hi: hi}
}

type registered struct {
	name string
	g    Generator
}

// Registry fans out to generators in registration order. The order decides
// ties between equally scored chains: earlier registrations win.
type Registry struct {
	entries []registered
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends g under name.
func (r *Registry) Register(name string, g Generator) *Registry {
	r.entries = append(r.entries, registered{name: name, g: g})
	return r
}

// Names lists the registered generator names in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Len is the number of registered generators.
func (r *Registry) Len() int { return len(r.entries) }

// Generate implements Generator by concatenating every generator's output.
func (r *Registry) Generate(st State, w *world.Model, path Path) []Pair {
	var out []Pair
	for _, e := range r.entries {
		out = append(out, e.g.Generate(st, w, path)...)
	}
	return out
}
