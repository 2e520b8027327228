package truntime

// Store is the append-only arena behind every variable, record field and
// array element. Locations are indices and are never freed during a run.
type Store struct {
	cells []Value
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Alloc(v Value) int {
	s.cells = append(s.cells, v)
	return len(s.cells) - 1
}

func (s *Store) Load(loc int) Value {
	return s.cells[loc]
}

func (s *Store) Set(loc int, v Value) {
	s.cells[loc] = v
}

func (s *Store) Len() int {
	return len(s.cells)
}
