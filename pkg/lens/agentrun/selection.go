package agentrun

// Selection is the set of agent keys chosen to run. Membership has set
// semantics, iteration has insertion order: the run executes agents in
// the order they were first selected.
type Selection struct {
	keys    []string
	present map[string]bool
}

// NewSelection builds a selection, optionally pre-seeded (the hub starts
// with one designated agent selected).
func NewSelection(initial ...string) *Selection {
	s := &Selection{present: make(map[string]bool)}
	for _, k := range initial {
		s.Toggle(k)
	}
	return s
}

// Toggle removes the key if present, adds it if absent. Idempotent per
// click: toggling twice restores the original contents.
func (s *Selection) Toggle(key string) {
	if s.present[key] {
		delete(s.present, key)
		for i, k := range s.keys {
			if k == key {
				s.keys = append(s.keys[:i], s.keys[i+1:]...)
				break
			}
		}
		return
	}
	s.present[key] = true
	s.keys = append(s.keys, key)
}

func (s *Selection) Contains(key string) bool { return s.present[key] }

func (s *Selection) Len() int { return len(s.keys) }

// Keys returns the selected keys in insertion order.
func (s *Selection) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Selection) Clear() {
	s.keys = nil
	s.present = make(map[string]bool)
}
