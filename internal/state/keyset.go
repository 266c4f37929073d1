package state

import "github.com/caps11d/caps11d/internal/keymap"

// KeySet is a set of key names. The zero value is not usable; use NewKeySet.
type KeySet map[keymap.KeyName]struct{}

// NewKeySet returns an empty KeySet.
func NewKeySet() KeySet {
	return make(KeySet)
}

// Add inserts name into the set.
func (s KeySet) Add(name keymap.KeyName) {
	s[name] = struct{}{}
}

// Remove deletes name from the set, if present.
func (s KeySet) Remove(name keymap.KeyName) {
	delete(s, name)
}

// Contains reports whether name is a member of the set.
func (s KeySet) Contains(name keymap.KeyName) bool {
	_, ok := s[name]
	return ok
}

// IsEmpty reports whether the set has no members.
func (s KeySet) IsEmpty() bool {
	return len(s) == 0
}

// Clone returns an independent copy of the set.
func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Without returns a copy of s with name removed.
func (s KeySet) Without(name keymap.KeyName) KeySet {
	out := s.Clone()
	out.Remove(name)
	return out
}

// Intersects reports whether s and other share any member.
func (s KeySet) Intersects(other KeySet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every member of s is also a member of other.
func (s KeySet) SubsetOf(other KeySet) bool {
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether s and other contain exactly the same members.
func (s KeySet) Equal(other KeySet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// EqualTo reports whether s contains exactly the given names, no more and
// no fewer. Convenience for chord-matching (C2, C5).
func (s KeySet) EqualTo(names ...keymap.KeyName) bool {
	if len(s) != len(names) {
		return false
	}
	for _, n := range names {
		if !s.Contains(n) {
			return false
		}
	}
	return true
}

// Partition splits s into keys matching pred and the residual.
func (s KeySet) Partition(pred func(keymap.KeyName) bool) (matched, rest KeySet) {
	matched, rest = NewKeySet(), NewKeySet()
	for k := range s {
		if pred(k) {
			matched.Add(k)
		} else {
			rest.Add(k)
		}
	}
	return matched, rest
}
