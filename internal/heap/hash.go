package heap

import "github.com/cwbudde/grib/internal/value"

// PropertyKind distinguishes a hash property holding a direct value
// from one backed by get/set accessors.
type PropertyKind byte

const (
	ValueProperty PropertyKind = iota
	AccessorProperty
)

// AccessorKind distinguishes the two legal forms a getter or setter
// can take: a captured-cell reference into an enclosing variable, or a
// closure over the hash literal's enclosing scope.
type AccessorKind byte

const (
	CapturedAccessor AccessorKind = iota
	ClosureAccessor
)

// Accessor is one resolved getter or setter.
type Accessor struct {
	Kind AccessorKind

	CellIndex int // heap index of the captured cell, valid when Kind == CapturedAccessor

	ClosureIndex int    // index into the owning Program/Module's Getters or Setters, valid when Kind == ClosureAccessor
	ModulePath   string // empty for the main program's closures
	Env          int    // heap index of the closure's captured environment, or -1; valid when Kind == ClosureAccessor
}

// Property is one key's value in a Hash: either a direct value or an
// accessor pair.
type Property struct {
	Kind  PropertyKind
	Value value.Value // valid when Kind == ValueProperty
	Get   *Accessor   // valid when Kind == AccessorProperty; nil if no getter
	Set   *Accessor   // valid when Kind == AccessorProperty; nil if no setter
}

// HashObject is the heap payload of a Grib hash: a mutability flag and
// a string-keyed property map. Key equality is Go's native string
// equality, which is exactly the byte-for-byte comparison the language
// requires — no separate precomputed-hash bookkeeping is needed since
// Go's map already hashes the key for us.
type HashObject struct {
	mutable bool
	props   map[string]*Property
}

func NewHashObject(mutable bool) *HashObject {
	return &HashObject{mutable: mutable, props: make(map[string]*Property)}
}

func (h *HashObject) Mutable() bool { return h.mutable }

func (h *HashObject) Get(key string) (*Property, bool) {
	p, ok := h.props[key]
	return p, ok
}

func (h *HashObject) Set(key string, p *Property) { h.props[key] = p }

// Keys returns the hash's keys in no particular order, matching
// spec.md's "preserve no particular iteration order for values".
func (h *HashObject) Keys() []string {
	keys := make([]string, 0, len(h.props))
	for k := range h.props {
		keys = append(keys, k)
	}
	return keys
}

func (h *HashObject) Len() int { return len(h.props) }
