package dynamo

// Store holds the authoritative body array. Integration happens in place on
// the back buffer; Swap publishes it. The front buffer is only ever exposed
// through Snapshot, which copies.
type Store struct {
	front Bodies
	back  Bodies
}

func NewStore(initial Bodies) *Store {
	s := &Store{}
	s.Replace(initial)
	return s
}

func (s *Store) Len() int { return len(s.front) }

// Snapshot returns a private copy of the current state.
func (s *Store) Snapshot() Bodies {
	return s.front.Clone()
}

// At returns body i of the current state by value.
func (s *Store) At(i int) Body {
	return s.front[i]
}

// Back primes the back buffer with the current state and returns it for
// in-place updates. Changes are invisible until Swap.
func (s *Store) Back() Bodies {
	copy(s.back, s.front)
	return s.back
}

func (s *Store) Swap() {
	s.front, s.back = s.back, s.front
}

// Replace installs bs as the current state.
func (s *Store) Replace(bs Bodies) {
	if len(s.front) != len(bs) {
		s.front = make(Bodies, len(bs))
		s.back = make(Bodies, len(bs))
	}
	copy(s.front, bs)
}

func (s *Store) Reset(initial Bodies) {
	s.Replace(initial)
}
