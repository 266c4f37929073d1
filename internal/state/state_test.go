package state

import (
	"testing"

	"github.com/caps11d/caps11d/internal/keymap"
)

func TestKeySetAddRemoveContains(t *testing.T) {
	s := NewKeySet()
	if !s.IsEmpty() {
		t.Fatalf("new set should be empty")
	}
	s.Add(keymap.AKey)
	if !s.Contains(keymap.AKey) {
		t.Fatalf("expected set to contain AKey after Add")
	}
	s.Remove(keymap.AKey)
	if s.Contains(keymap.AKey) {
		t.Fatalf("expected set to not contain AKey after Remove")
	}
}

func TestKeySetCloneIsIndependent(t *testing.T) {
	s := NewKeySet()
	s.Add(keymap.CapsLockKey)
	clone := s.Clone()
	clone.Add(keymap.EnterKey)

	if s.Contains(keymap.EnterKey) {
		t.Fatalf("mutating a clone must not affect the original")
	}
	if !clone.Contains(keymap.CapsLockKey) {
		t.Fatalf("clone should carry over existing members")
	}
}

func TestKeySetWithout(t *testing.T) {
	s := NewKeySet()
	s.Add(keymap.AltLeftKey)
	s.Add(keymap.AltRightKey)

	rest := s.Without(keymap.AltLeftKey)
	if rest.Contains(keymap.AltLeftKey) {
		t.Fatalf("Without should drop the given key")
	}
	if !rest.Contains(keymap.AltRightKey) {
		t.Fatalf("Without should keep other keys")
	}
	if !s.Contains(keymap.AltLeftKey) {
		t.Fatalf("Without must not mutate the receiver")
	}
}

func TestKeySetEqualTo(t *testing.T) {
	s := NewKeySet()
	s.Add(keymap.ControlLeftKey)
	s.Add(keymap.ControlRightKey)

	if !s.EqualTo(keymap.ControlLeftKey, keymap.ControlRightKey) {
		t.Fatalf("expected EqualTo to match exact membership regardless of arg order result")
	}
	if s.EqualTo(keymap.ControlLeftKey) {
		t.Fatalf("EqualTo must fail when the set has extra members")
	}
}

func TestKeySetSubsetOfAndIntersects(t *testing.T) {
	mods := NewKeySet()
	mods.Add(keymap.AltLeftKey)
	mods.Add(keymap.ControlLeftKey)

	sub := NewKeySet()
	sub.Add(keymap.AltLeftKey)

	if !sub.SubsetOf(mods) {
		t.Fatalf("expected sub to be a subset of mods")
	}
	if mods.SubsetOf(sub) {
		t.Fatalf("mods should not be a subset of sub")
	}
	if !sub.Intersects(mods) {
		t.Fatalf("expected sub and mods to intersect")
	}

	other := NewKeySet()
	other.Add(keymap.EnterKey)
	if sub.Intersects(other) {
		t.Fatalf("disjoint sets must not intersect")
	}
}

func TestKeySetPartition(t *testing.T) {
	s := NewKeySet()
	s.Add(keymap.AKey)
	s.Add(keymap.MediaPlayPauseKey)

	matched, rest := s.Partition(func(n keymap.KeyName) bool { return n == keymap.MediaPlayPauseKey })
	if !matched.EqualTo(keymap.MediaPlayPauseKey) {
		t.Fatalf("expected matched to contain only MediaPlayPauseKey, got %+v", matched)
	}
	if !rest.EqualTo(keymap.AKey) {
		t.Fatalf("expected rest to contain only AKey, got %+v", rest)
	}
}

func TestCheckInvariantsCatchesComboFlagConflict(t *testing.T) {
	s := New()
	s.Combo.IsCapsLockUsedWithCombos = true
	s.Combo.IsEnterUsedWithCombos = true

	problems := s.CheckInvariants()
	if len(problems) == 0 {
		t.Fatalf("expected a problem when both combo flags are set")
	}
}

func TestCheckInvariantsCatchesEnterModsWithoutEnterHeld(t *testing.T) {
	s := New()
	mods := NewKeySet()
	mods.Add(keymap.AltLeftKey)
	s.Combo.EnterPressedWithMods = mods

	problems := s.CheckInvariants()
	if len(problems) == 0 {
		t.Fatalf("expected a problem when EnterPressedWithMods is set but Enter isn't held")
	}
}

func TestCheckInvariantsCleanStateHasNoProblems(t *testing.T) {
	s := New()
	s.PressedKeys.Add(keymap.EnterKey)
	mods := NewKeySet()
	mods.Add(keymap.ControlLeftKey)
	s.Combo.EnterPressedWithMods = mods

	if problems := s.CheckInvariants(); len(problems) != 0 {
		t.Fatalf("expected no problems, got %+v", problems)
	}
}

func TestSnapshotIsIndependentOfLiveState(t *testing.T) {
	s := New()
	s.PressedKeys.Add(keymap.AKey)
	snap := s.Snapshot()

	s.PressedKeys.Add(keymap.EnterKey)
	if snap.PressedKeys.Contains(keymap.EnterKey) {
		t.Fatalf("snapshot must not see mutations made after it was taken")
	}
	if !snap.PressedKeys.Contains(keymap.AKey) {
		t.Fatalf("snapshot should carry over state captured at the time")
	}
}
