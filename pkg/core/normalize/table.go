package normalize

// ConceptTable maps normalized concept labels to a single numeric value while
// preserving insertion order. Pattern matching over the table is
// first-match-wins, so iteration order must follow the arrival order of the
// source rows; a plain map would make tie resolution nondeterministic.
type ConceptTable struct {
	keys   []string
	values map[string]float64
}

// NewConceptTable returns an empty table.
func NewConceptTable() *ConceptTable {
	return &ConceptTable{values: make(map[string]float64)}
}

// Set stores a value for the concept. A concept keeps the position of its
// first insertion when updated.
func (t *ConceptTable) Set(concept string, value float64) {
	if _, ok := t.values[concept]; !ok {
		t.keys = append(t.keys, concept)
	}
	t.values[concept] = value
}

// Get returns the value for the concept.
func (t *ConceptTable) Get(concept string) (float64, bool) {
	v, ok := t.values[concept]
	return v, ok
}

// Concepts returns the concept labels in insertion order. The returned slice
// is shared; callers must not modify it.
func (t *ConceptTable) Concepts() []string {
	if t == nil {
		return nil
	}
	return t.keys
}

// Len returns the number of concepts in the table.
func (t *ConceptTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// StatementTable maps years to their concept tables.
type StatementTable map[int]*ConceptTable

// Year returns the concept table for a year, which may be nil.
func (s StatementTable) Year(year int) *ConceptTable {
	return s[year]
}
