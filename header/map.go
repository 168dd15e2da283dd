package header

import (
	"iter"
	"net/http"
	"slices"
	"strings"
)

// entry is a single header field. name keeps the casing it was first set with.
type entry struct {
	name  string
	value string
}

// Map is an ordered mapping from header name to header value. Names are
// compared with ASCII case folding, so "Content-Type" and "content-type"
// address the same entry. Entries are kept sorted by Compare, which makes
// iteration order deterministic.
//
// The zero value is an empty map ready to use.
type Map struct {
	entries []entry
}

// New creates a Map with room for n entries.
func New(n int) Map {
	return Map{entries: make([]entry, 0, n)}
}

// search returns the position of name and whether it exists.
func (m *Map) search(name string) (int, bool) {
	return slices.BinarySearchFunc(m.entries, name, func(e entry, target string) int {
		return Compare(e.name, target)
	})
}

// Set inserts or replaces the value stored under name.
func (m *Map) Set(name, value string) {
	i, found := m.search(name)
	if found {
		m.entries[i].value = value
		return
	}
	m.entries = slices.Insert(m.entries, i, entry{name: name, value: value})
}

// Add appends value to an existing entry using ", " as separator, or
// inserts a new entry when name is absent.
func (m *Map) Add(name, value string) {
	i, found := m.search(name)
	if found {
		m.entries[i].value += ", " + value
		return
	}
	m.entries = slices.Insert(m.entries, i, entry{name: name, value: value})
}

// Get returns the value stored under name and whether it was present.
func (m Map) Get(name string) (string, bool) {
	i, found := m.search(name)
	if !found {
		return "", false
	}
	return m.entries[i].value, true
}

// Value returns the value stored under name, or "" when absent.
func (m Map) Value(name string) string {
	v, _ := m.Get(name)
	return v
}

// Has reports whether name is present.
func (m Map) Has(name string) bool {
	_, found := m.search(name)
	return found
}

// Del removes name. It is a no-op when name is absent.
func (m *Map) Del(name string) {
	if i, found := m.search(name); found {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
}

// Len returns the number of entries.
func (m Map) Len() int {
	return len(m.entries)
}

// All iterates over the entries in folded name order.
func (m Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range m.entries {
			if !yield(e.name, e.value) {
				return
			}
		}
	}
}

// Keys returns the stored names in folded order.
func (m Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.name
	}
	return keys
}

// Clone returns an independent copy of m.
func (m Map) Clone() Map {
	return Map{entries: slices.Clone(m.entries)}
}

// String renders the map in wire format, one "Name: value" line per entry.
func (m Map) String() string {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(e.name)
		b.WriteString(": ")
		b.WriteString(e.value)
		b.WriteString("\r\n")
	}
	return b.String()
}

// FromHTTP copies h into a new Map. Multi-valued fields, and keys of h that
// differ only in case, are joined with ", ".
func FromHTTP(h http.Header) Map {
	m := New(len(h))
	for name, values := range h {
		m.Add(name, strings.Join(values, ", "))
	}
	return m
}

// ToHTTP copies m into a new http.Header.
func (m Map) ToHTTP() http.Header {
	h := make(http.Header, len(m.entries))
	for _, e := range m.entries {
		h.Set(e.name, e.value)
	}
	return h
}
