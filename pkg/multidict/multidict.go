// Package multidict provides an ordered multi-value map.
//
// A MultiDict keeps its (key, value) pairs in insertion order and allows
// duplicate keys, which is what query strings, form bodies, and HTTP headers
// need. Lookups return the first value for a key or all values in order.
package multidict

import "strings"

// MultiDict is an ordered sequence of (key, value) pairs. Keys may repeat.
// The zero value is not usable; create instances with New or NewFolded.
type MultiDict[V any] struct {
	pairs  []Pair[V]
	folded bool
}

// Pair is a single (key, value) entry.
type Pair[V any] struct {
	Key   string
	Value V
}

// New creates an empty MultiDict with case-sensitive keys.
func New[V any]() *MultiDict[V] {
	return &MultiDict[V]{}
}

// NewFolded creates an empty MultiDict that compares keys case-insensitively,
// as HTTP header semantics require. The stored key keeps the spelling it was
// first added with.
func NewFolded[V any]() *MultiDict[V] {
	return &MultiDict[V]{folded: true}
}

func (d *MultiDict[V]) match(a, b string) bool {
	if d.folded {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Add appends a (key, value) pair. It never overwrites existing entries.
func (d *MultiDict[V]) Add(key string, value V) {
	d.pairs = append(d.pairs, Pair[V]{Key: key, Value: value})
}

// Set removes all entries for key and appends exactly one new entry.
func (d *MultiDict[V]) Set(key string, value V) {
	d.Del(key)
	d.Add(key, value)
}

// Get returns the first value for key, and whether any entry exists.
func (d *MultiDict[V]) Get(key string) (V, bool) {
	for _, p := range d.pairs {
		if d.match(p.Key, key) {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// GetAll returns all values for key in insertion order.
func (d *MultiDict[V]) GetAll(key string) []V {
	var vals []V
	for _, p := range d.pairs {
		if d.match(p.Key, key) {
			vals = append(vals, p.Value)
		}
	}
	return vals
}

// Del removes all entries for key.
func (d *MultiDict[V]) Del(key string) {
	kept := d.pairs[:0]
	for _, p := range d.pairs {
		if !d.match(p.Key, key) {
			kept = append(kept, p)
		}
	}
	d.pairs = kept
}

// Has reports whether at least one entry exists for key.
func (d *MultiDict[V]) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of stored pairs, counting duplicates.
func (d *MultiDict[V]) Len() int {
	return len(d.pairs)
}

// Keys returns all keys in insertion order, including duplicates.
func (d *MultiDict[V]) Keys() []string {
	keys := make([]string, len(d.pairs))
	for i, p := range d.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns the stored pairs in insertion order. The returned slice is a
// copy; mutating it does not affect the dict.
func (d *MultiDict[V]) Pairs() []Pair[V] {
	out := make([]Pair[V], len(d.pairs))
	copy(out, d.pairs)
	return out
}
