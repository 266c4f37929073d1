package interp

import (
	"sort"

	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/state"
)

// sortedNames returns the members of s in a deterministic order (sorted by
// name), used by resetAll and abstractRelease (spec.md §9 Open Question (a)).
func sortedNames(s state.KeySet) []keymap.KeyName {
	out := make([]keymap.KeyName, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
