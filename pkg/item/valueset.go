package item

import "encoding/json"

// ValueSet is a duplicate-free collection of attribute values.
//
// SimpleDB attribute values are unordered sets, but the service echoes
// values back in a stable order and callers find ordered output easier to
// read, so the set remembers insertion order. Equality is set equality;
// order never participates in comparisons.
type ValueSet struct {
	values []string
	seen   map[string]struct{}
}

// NewValueSet builds a set from the given values, dropping duplicates
// while keeping first-seen order.
func NewValueSet(values ...string) *ValueSet {
	s := &ValueSet{seen: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v, reporting whether it was not already present.
func (s *ValueSet) Add(v string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Remove deletes v, reporting whether it was present.
func (s *ValueSet) Remove(v string) bool {
	if _, ok := s.seen[v]; !ok {
		return false
	}
	delete(s.seen, v)
	for i, existing := range s.values {
		if existing == v {
			s.values = append(s.values[:i], s.values[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether v is in the set.
func (s *ValueSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of values.
func (s *ValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns the values in insertion order as a fresh slice.
func (s *ValueSet) Values() []string {
	if s == nil || len(s.values) == 0 {
		return []string{}
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Clone returns an independent copy.
func (s *ValueSet) Clone() *ValueSet {
	if s == nil {
		return NewValueSet()
	}
	return NewValueSet(s.values...)
}

// Union returns a new set holding the values of s followed by the values
// of other that s did not already have. Neither input is mutated.
func (s *ValueSet) Union(other *ValueSet) *ValueSet {
	out := s.Clone()
	if other != nil {
		for _, v := range other.values {
			out.Add(v)
		}
	}
	return out
}

// Difference returns a new set holding the values of s that are not in
// other. Neither input is mutated.
func (s *ValueSet) Difference(other *ValueSet) *ValueSet {
	out := NewValueSet()
	if s == nil {
		return out
	}
	for _, v := range s.values {
		if !other.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

// Equal reports set equality; insertion order is ignored.
func (s *ValueSet) Equal(other *ValueSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for _, v := range s.values {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON array in insertion order.
func (s *ValueSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *ValueSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = *NewValueSet(values...)
	return nil
}
