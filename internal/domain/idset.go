package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// IDSet is an insertion-ordered set of IDs. Membership and Add are O(1);
// Remove is O(n) because it preserves order. The zero value is an empty set.
type IDSet struct {
	ids   []uuid.UUID
	index map[uuid.UUID]struct{}
}

// NewIDSet builds a set from ids, keeping the first occurrence of each.
func NewIDSet(ids ...uuid.UUID) IDSet {
	var s IDSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id if it is not already present and reports whether it was added.
func (s *IDSet) Add(id uuid.UUID) bool {
	if s.Contains(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[uuid.UUID]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *IDSet) Remove(id uuid.UUID) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s.index, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id uuid.UUID) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s IDSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the members in insertion order.
func (s IDSet) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.ids))
	copy(out, s.ids)
	return out
}

// MarshalJSON encodes the set as a JSON array, never null.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array, dropping duplicates.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
