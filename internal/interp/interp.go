// Package interp is the event interpreter: spec.md component E, the main
// per-event decision tree. It is the only writer of State during event
// processing (spec.md §2); the mode coordinator is called as a post-step
// on every event.
package interp

import (
	"fmt"
	"log/slog"

	"github.com/caps11d/caps11d/internal/effector"
	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/mode"
	"github.com/caps11d/caps11d/internal/state"
)

// Interpreter consumes decoded (key, pressed?) pairs and drives State,
// the mode coordinator, and the effector (spec.md §4.E).
type Interpreter struct {
	km    *keymap.Keymap
	st    *state.State
	eff   *effector.Effector
	coord *mode.Coordinator
	cfg   Config
	log   *slog.Logger
}

// New builds an Interpreter.
func New(km *keymap.Keymap, st *state.State, eff *effector.Effector, coord *mode.Coordinator, cfg Config, log *slog.Logger) *Interpreter {
	return &Interpreter{km: km, st: st, eff: eff, coord: coord, cfg: cfg, log: log}
}

// HandleEvent is the entry sequence from spec.md §4.E: decode happens
// before this call (the caller already resolved the evdev code to a
// KeyName); this runs duplicate suppression, updates the pressed set, runs
// the classifier, and runs the three mode-change post-steps, all under one
// lock acquisition (spec.md §5).
func (ip *Interpreter) HandleEvent(name keymap.KeyName, isPressed bool) error {
	code, ok := ip.codeFor(name)
	if !ok {
		// Missing key code in map is a startup/config error (spec.md §7,
		// error kind 2), not something a live event can trigger once the
		// keymap is built correctly; treat it defensively as a dropped
		// event rather than crashing the daemon mid-stream.
		ip.log.Warn("interp: key has no X key code", "key", name)
		return nil
	}

	ip.st.Lock()
	defer ip.st.Unlock()

	wasPressed := ip.st.PressedKeys.Contains(name)
	if wasPressed == isPressed {
		// Step 1: duplicate suppression (spec.md §4.E, §7 error kind 5).
		return nil
	}

	// Step 2: update pressed set.
	if isPressed {
		ip.st.PressedKeys.Add(name)
	} else {
		ip.st.PressedKeys.Remove(name)
	}

	// Step 3: classifier.
	if err := ip.classifyLoop(name, code, isPressed, 0); err != nil {
		return err
	}

	// Step 4: post-steps, in order.
	return ip.runPostSteps()
}

// ResetOnFocusChange runs resetAll under the state lock. It is invoked from
// the X focus-watcher goroutine when --disable-reset-by-window-focus-event
// is not set (spec.md §6), so that mid-combo state from the previous window
// cannot leak into the newly focused one.
func (ip *Interpreter) ResetOnFocusChange() error {
	ip.st.Lock()
	defer ip.st.Unlock()
	return ip.resetAll()
}

func (ip *Interpreter) runPostSteps() error {
	if _, err := ip.coord.HandleResetKbdLayout(); err != nil {
		return fmt.Errorf("interp: resetting kbd layout: %w", err)
	}
	ip.coord.HandleCapsLockModeChange()
	ip.coord.HandleAlternativeModeChange()
	return nil
}

// acSlot names the pieces of ComboState that the additional-control rules
// (C7/C8) thread through: whether the control has been "upgraded", the
// snapshot of keys held before it was pressed, and the real control key it
// upgrades to. This stands in for the source's lens over comboState
// (spec.md §9).
type acSlot struct {
	flag          *bool
	pressedBefore state.KeySet
	controlKey    keymap.KeyName
}

func (ip *Interpreter) acSlotFor(name keymap.KeyName) acSlot {
	if name == keymap.CapsLockKey {
		return acSlot{
			flag:          &ip.st.Combo.IsCapsLockUsedWithCombos,
			pressedBefore: ip.st.Combo.KeysPressedBeforeCapsLock,
			controlKey:    keymap.ControlLeftKey,
		}
	}
	return acSlot{
		flag:          &ip.st.Combo.IsEnterUsedWithCombos,
		pressedBefore: ip.st.Combo.KeysPressedBeforeEnter,
		controlKey:    keymap.ControlRightKey,
	}
}

// codeFor resolves the X key code an incoming event decodes to. It is the
// one place RealCapsLock changes decode behavior: with --real-capslock set,
// Caps Lock decodes to its own hardware code instead of the Escape remap
// (spec.md §4.A real_key_code, §6 --real-capslock).
func (ip *Interpreter) codeFor(name keymap.KeyName) (keymap.XKeyCode, bool) {
	if name == keymap.CapsLockKey && ip.cfg.RealCapsLock {
		return ip.km.RealKeyCode(name)
	}
	return ip.km.KeyCode(name)
}

func (ip *Interpreter) setPressedBefore(name keymap.KeyName, set state.KeySet) {
	if name == keymap.CapsLockKey {
		ip.st.Combo.KeysPressedBeforeCapsLock = set
	} else {
		ip.st.Combo.KeysPressedBeforeEnter = set
	}
}

// resetAll releases every held key at X in a deterministic order (sorted
// by name — spec.md §9 Open Question (a)), then requests Caps Lock off,
// Alternative off, and a layout reset through the coordinator.
func (ip *Interpreter) resetAll() error {
	names := sortedNames(ip.st.PressedKeys)
	for _, name := range names {
		if code, ok := ip.codeFor(name); ok {
			if err := ip.eff.Release(code); err != nil {
				ip.log.Warn("resetAll: releasing key failed", "key", name, "error", err)
			}
		}
		ip.st.PressedKeys.Remove(name)
	}

	ip.coord.RequestCapsLockToggle(false, true)
	ip.coord.RequestAlternativeToggle(false, true)
	if _, err := ip.coord.RequestResetKbdLayout(); err != nil {
		return fmt.Errorf("resetAll: %w", err)
	}
	return nil
}

// abstractRelease partitions pressedKeys by pred, releases each matching
// key at its codeFn code, and replaces pressedKeys with the residual
// (spec.md §4.E).
func (ip *Interpreter) abstractRelease(pred func(keymap.KeyName) bool, codeFn func(keymap.KeyName) (keymap.XKeyCode, bool)) {
	matched, rest := ip.st.PressedKeys.Partition(pred)
	for _, name := range sortedNames(matched) {
		if code, ok := codeFn(name); ok {
			if err := ip.eff.Release(code); err != nil {
				ip.log.Warn("abstractRelease: release failed", "key", name, "error", err)
			}
		}
	}
	ip.st.PressedKeys = rest
}
