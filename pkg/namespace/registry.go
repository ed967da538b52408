// Package namespace records which bit indices each variable name in a
// design has been declared with. The registry is owned by the design
// model and threaded explicitly through scanning so later statements see
// every earlier declaration.
package namespace

import (
	"fmt"
	"sort"
	"strconv"
)

// record holds the declarations seen for one name. A name is either a
// pure scalar or a set of bit-indexed components, never both.
type record struct {
	scalar bool
	bits   map[int]bool
}

// Registry tracks per-name component declarations for one design scan.
type Registry struct {
	names map[string]*record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]*record)}
}

// RegisterScalar declares name as a pure scalar with no bit indices.
// The first declaration wins: redeclaring a vector name as a scalar is an
// error, redeclaring a scalar is a no-op.
func (r *Registry) RegisterScalar(name string) error {
	rec, ok := r.names[name]
	if !ok {
		r.names[name] = &record{scalar: true}
		return nil
	}
	if !rec.scalar {
		return fmt.Errorf("'%s' is already declared as a vector", name)
	}
	return nil
}

// RegisterBit declares one bit index of name. Redeclaring a scalar name
// with a bit index is an error.
func (r *Registry) RegisterBit(name string, bit int) error {
	rec, ok := r.names[name]
	if !ok {
		rec = &record{bits: make(map[int]bool)}
		r.names[name] = rec
	}
	if rec.scalar {
		return fmt.Errorf("'%s' is already declared as a scalar", name)
	}
	rec.bits[bit] = true
	return nil
}

// Has reports whether name has any declaration.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// IsScalar reports whether name is declared as a pure scalar.
func (r *Registry) IsScalar(name string) bool {
	rec, ok := r.names[name]
	return ok && rec.scalar
}

// Bits returns the declared bit indices of name, most significant first.
// A pure scalar or unknown name yields nil.
func (r *Registry) Bits(name string) []int {
	rec, ok := r.names[name]
	if !ok || rec.scalar {
		return nil
	}
	bits := make([]int, 0, len(rec.bits))
	for b := range rec.bits {
		bits = append(bits, b)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(bits)))
	return bits
}

// Components returns the component names of name, most significant first:
// "name7" .. "name0" for a vector, the bare name for a scalar, nil for an
// unknown name.
func (r *Registry) Components(name string) []string {
	rec, ok := r.names[name]
	if !ok {
		return nil
	}
	if rec.scalar {
		return []string{name}
	}
	bits := r.Bits(name)
	components := make([]string, len(bits))
	for i, b := range bits {
		components[i] = name + strconv.Itoa(b)
	}
	return components
}

// Names returns every declared name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
