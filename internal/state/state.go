// Package state holds the single mutable record the daemon owns and the
// lock that serializes every mutation of it (spec.md §3, §5).
package state

import (
	"sync"

	"github.com/caps11d/caps11d/internal/keymap"
)

// ComboState holds the additional-control, Enter-with-mods, Apple-media,
// and deferred-mode-change substates described in spec.md §3.
type ComboState struct {
	AppleMediaPressed bool

	IsCapsLockUsedWithCombos bool
	IsEnterUsedWithCombos    bool

	KeysPressedBeforeCapsLock KeySet
	KeysPressedBeforeEnter    KeySet

	// EnterPressedWithMods is nil when idle; non-nil holds the exact
	// modifier set Enter was pressed together with (spec.md §3 invariant 3).
	EnterPressedWithMods KeySet

	// CapsLockModeChange / AlternativeModeChange are nil when idle;
	// non-nil holds the pending toggle target.
	CapsLockModeChange    *bool
	AlternativeModeChange *bool

	// ResetKbdLayout is true while a layout reset is queued, deferred
	// until the keyboard goes idle.
	ResetKbdLayout bool
}

// LEDs mirrors the keyboard indicator state last observed from X.
type LEDs struct {
	CapsLockLed bool
}

// State is the single record described in spec.md §3. It is owned by the
// caller that took Lock(); every field mutation must happen between a
// Lock/Unlock pair, matching the single-writer model in spec.md §5.
type State struct {
	mu sync.Mutex

	PressedKeys KeySet
	Alternative bool
	Leds        LEDs
	Combo       ComboState
}

// New returns an initialized State with empty sets, as described in
// spec.md §3's Lifecycle: "initialized at startup with empty sets and
// current LED sampled from the X server." Callers set Leds after sampling.
func New() *State {
	return &State{
		PressedKeys: NewKeySet(),
		Combo: ComboState{
			KeysPressedBeforeCapsLock: NewKeySet(),
			KeysPressedBeforeEnter:    NewKeySet(),
		},
	}
}

// Lock acquires the single state lock for the duration of one event's
// classify-and-post-steps sequence (spec.md §5).
func (s *State) Lock() {
	s.mu.Lock()
}

// Unlock releases the state lock.
func (s *State) Unlock() {
	s.mu.Unlock()
}

// Snapshot returns an independent value copy of the state, for callers
// that need a consistent view without holding the lock longer than
// necessary (spec.md §4.B).
func (s *State) Snapshot() Snap {
	return Snap{
		PressedKeys: s.PressedKeys.Clone(),
		Alternative: s.Alternative,
		Leds:        s.Leds,
		Combo:       s.Combo.clone(),
	}
}

// Snap is an immutable point-in-time copy of State.
type Snap struct {
	PressedKeys KeySet
	Alternative bool
	Leds        LEDs
	Combo       ComboState
}

func (c ComboState) clone() ComboState {
	out := c
	out.KeysPressedBeforeCapsLock = c.KeysPressedBeforeCapsLock.Clone()
	out.KeysPressedBeforeEnter = c.KeysPressedBeforeEnter.Clone()
	if c.EnterPressedWithMods != nil {
		out.EnterPressedWithMods = c.EnterPressedWithMods.Clone()
	}
	if c.CapsLockModeChange != nil {
		v := *c.CapsLockModeChange
		out.CapsLockModeChange = &v
	}
	if c.AlternativeModeChange != nil {
		v := *c.AlternativeModeChange
		out.AlternativeModeChange = &v
	}
	return out
}

// CheckInvariants validates part of spec.md §3's invariants against the
// current field values: invariant 2 (both combo flags, both before-sets)
// and the Enter-held half of invariant 3. It does not check invariant 1,
// invariant 4, or that EnterPressedWithMods holds only modifiers. It never
// mutates state; it is meant for use from tests and from fuzzing harnesses
// (spec.md §8).
func (s *State) CheckInvariants() []string {
	var problems []string

	if s.Combo.IsCapsLockUsedWithCombos && s.Combo.IsEnterUsedWithCombos {
		problems = append(problems, "both CapsLock and Enter combo flags set")
	}
	if !s.Combo.KeysPressedBeforeCapsLock.IsEmpty() && !s.Combo.KeysPressedBeforeEnter.IsEmpty() {
		problems = append(problems, "both before-CapsLock and before-Enter sets non-empty")
	}
	if s.Combo.EnterPressedWithMods != nil {
		if !s.PressedKeys.Contains(keymap.EnterKey) {
			problems = append(problems, "EnterPressedWithMods set without Enter held")
		}
	}
	return problems
}
