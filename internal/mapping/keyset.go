package mapping

import "github.com/prime-run/evremap/internal/keycode"

// KeySet is an unordered set of key codes, used for chord inputs/outputs
// where membership and subset tests matter more than iteration order.
type KeySet map[keycode.Key]struct{}

// NewKeySet builds a KeySet from a slice, discarding duplicates.
func NewKeySet(keys []keycode.Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether k is a member.
func (s KeySet) Contains(k keycode.Key) bool {
	_, ok := s[k]
	return ok
}

// SubsetOf reports whether every member of s is also a member of held.
func (s KeySet) SubsetOf(held map[keycode.Key]struct{}) bool {
	for k := range s {
		if _, ok := held[k]; !ok {
			return false
		}
	}
	return true
}

// Slice returns the members in no particular order.
func (s KeySet) Slice() []keycode.Key {
	out := make([]keycode.Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// Len returns the number of members.
func (s KeySet) Len() int {
	return len(s)
}
