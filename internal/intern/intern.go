// Package intern maps identifier and literal strings to stable dense
// indices used throughout resolution and the runtime.
//
// Interning is consulted only during parsing and resolution; runtime
// string handles that originate from concatenation or native calls are
// compared by content instead, never re-interned.
package intern

// ID is a dense index into a Table, assigned in first-seen order.
type ID int

// Table is a simple bidirectional string interner. It is not safe for
// concurrent use: the resolver and parser both run single-threaded.
type Table struct {
	strings []string
	index   map[string]ID
}

// New creates an empty interner.
func New() *Table {
	return &Table{index: make(map[string]ID)}
}

// Intern returns the stable index for s, assigning a new one the first
// time s is seen. Repeated interning of equal strings is idempotent.
func (t *Table) Intern(s string) ID {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = id
	return id
}

// Lookup returns the string for a previously interned ID. It panics on
// an out-of-range ID, which indicates an implementation bug (an ID
// manufactured outside this table).
func (t *Table) Lookup(id ID) string {
	return t.strings[id]
}

// Len returns the number of distinct interned strings.
func (t *Table) Len() int { return len(t.strings) }
