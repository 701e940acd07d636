// Package names implements the bidirectional string<->ID interner
// shared by every other package: the scanner interns identifiers as it
// scans them, the parser/devices/network packages pass IDs around
// instead of strings, and the error bus reserves IDs from the same
// counter to use as error codes.
//
// Grounded on the teacher's symbol-table pattern in lang/yparse/symtab.go
// and the map-based tables in lang/sem/analyzer.go.
package names

// Table is an ordered, append-only sequence of unique strings. A
// string's ID is its index. Reserved error codes share this same ID
// space but have no backing string (Stringify returns ok=false for
// them) -- ReserveErrorCodes simply advances the counter.
type Table struct {
	strings     []string
	index       map[string]int
	reservedSet map[int]struct{}
}

// New returns an empty interner.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Intern inserts each string if absent and returns its ID. Never
// rejects on lexical grounds -- validity is the scanner/parser's job.
func (t *Table) Intern(ss ...string) []int {
	ids := make([]int, len(ss))
	for i, s := range ss {
		ids[i] = t.internOne(s)
	}
	return ids
}

func (t *Table) internOne(s string) int {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = id
	return id
}

// Query looks up a string without inserting it.
func (t *Table) Query(s string) (int, bool) {
	id, ok := t.index[s]
	return id, ok
}

// Stringify returns the string backing id, or ok=false if id is out of
// range or is a reserved error code with no backing string.
func (t *Table) Stringify(id int) (string, bool) {
	if id < 0 || id >= len(t.strings) {
		return "", false
	}
	s := t.strings[id]
	if s == "" && t.reserved(id) {
		return "", false
	}
	return s, true
}

// reserved reports whether id was handed out by ReserveErrorCodes, so
// Stringify can distinguish a reserved code from an interned empty
// string (which never legitimately occurs, but keeps the API honest).
func (t *Table) reserved(id int) bool {
	_, ok := t.reservedSet[id]
	return ok
}

// ReserveErrorCodes allocates n contiguous, unique IDs from the same
// counter backing name interning and returns them. These IDs are never
// returned by Intern/Query for any string; they exist purely so that
// "is this ID a known error code" is an O(1) membership test against
// the per-category message maps the error bus builds from exactly this
// slice.
func (t *Table) ReserveErrorCodes(n int) []int {
	if t.reservedSet == nil {
		t.reservedSet = make(map[int]struct{})
	}
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		id := len(t.strings)
		t.strings = append(t.strings, "")
		t.reservedSet[id] = struct{}{}
		ids[i] = id
	}
	return ids
}
