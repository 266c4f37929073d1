// Package mode implements the deferred mode-change coordinator described
// in spec.md §4.D: Caps Lock toggle, Alternative toggle, and keyboard
// layout reset are all applied immediately if the keyboard is idle, or
// queued until it becomes idle. Callers must hold the State lock for the
// duration of every Coordinator call (spec.md §5).
package mode

import (
	"fmt"
	"log/slog"

	"github.com/caps11d/caps11d/internal/effector"
	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/state"
	"github.com/caps11d/caps11d/internal/xdriver"
)

// Result is the outcome of a coordinator call, replacing the source's
// either-as-early-return with an explicit tri-state (spec.md §9).
type Result int

const (
	// Applied means the handler ran and the pending slot was cleared.
	Applied Result = iota
	// Pending means the keyboard was not idle; the change was queued.
	Pending
	// Skipped means nothing needed to happen (already at target, or no
	// pending change was queued).
	Skipped
)

// Coordinator owns the three deferred mode changes. It holds no state of
// its own beyond its collaborators; all mutable state lives in *state.State.
type Coordinator struct {
	st     *state.State
	eff    *effector.Effector
	driver xdriver.Driver
	km     *keymap.Keymap
	log    *slog.Logger
}

// New builds a Coordinator.
func New(st *state.State, eff *effector.Effector, driver xdriver.Driver, km *keymap.Keymap, log *slog.Logger) *Coordinator {
	return &Coordinator{st: st, eff: eff, driver: driver, km: km, log: log}
}

// --- Caps Lock toggle ---------------------------------------------------

// RequestCapsLockToggle queues or immediately applies a Caps Lock change to
// targetOn. If idempotent is true, the request is a no-op when the current
// LED already matches targetOn (spec.md §4.D, "already" indication); pass
// false for an unconditional toggle (rule C5).
func (c *Coordinator) RequestCapsLockToggle(targetOn bool, idempotent bool) Result {
	if idempotent && c.st.Leds.CapsLockLed == targetOn {
		c.st.Combo.CapsLockModeChange = nil
		return Skipped
	}
	if c.st.PressedKeys.IsEmpty() {
		c.log.Debug("mode: doing caps lock change now", "target", targetOn)
		c.applyCapsLock(targetOn)
		c.st.Combo.CapsLockModeChange = nil
		return Applied
	}
	v := targetOn
	c.st.Combo.CapsLockModeChange = &v
	return Pending
}

// HandleCapsLockModeChange is the per-event post-step (spec.md §4.E step 4).
func (c *Coordinator) HandleCapsLockModeChange() Result {
	pending := c.st.Combo.CapsLockModeChange
	if pending == nil {
		return Skipped
	}
	if *pending == c.st.Leds.CapsLockLed {
		c.st.Combo.CapsLockModeChange = nil
		return Skipped
	}
	if !c.st.PressedKeys.IsEmpty() {
		return Pending
	}
	c.log.Debug("mode: doing caps lock change now", "target", *pending)
	c.applyCapsLock(*pending)
	c.st.Combo.CapsLockModeChange = nil
	return Applied
}

func (c *Coordinator) applyCapsLock(targetOn bool) {
	code, _ := c.km.RealKeyCode(keymap.RealCapsLockKey)
	if err := c.eff.ChangeCapsLock(code); err != nil {
		c.log.Error("mode: changing caps lock failed", "error", err)
		return
	}
	c.st.Leds.CapsLockLed = targetOn
	c.eff.NotifyCapsLock(targetOn)
}

// --- Alternative toggle --------------------------------------------------

// RequestAlternativeToggle queues or immediately applies an Alternative
// mode change to targetOn, with the same idempotent semantics as
// RequestCapsLockToggle.
func (c *Coordinator) RequestAlternativeToggle(targetOn bool, idempotent bool) Result {
	if idempotent && c.st.Alternative == targetOn {
		c.st.Combo.AlternativeModeChange = nil
		return Skipped
	}
	if c.st.PressedKeys.IsEmpty() {
		c.applyAlternative(targetOn)
		c.st.Combo.AlternativeModeChange = nil
		return Applied
	}
	v := targetOn
	c.st.Combo.AlternativeModeChange = &v
	return Pending
}

// HandleAlternativeModeChange is the per-event post-step.
func (c *Coordinator) HandleAlternativeModeChange() Result {
	pending := c.st.Combo.AlternativeModeChange
	if pending == nil {
		return Skipped
	}
	if *pending == c.st.Alternative {
		c.st.Combo.AlternativeModeChange = nil
		return Skipped
	}
	if !c.st.PressedKeys.IsEmpty() {
		return Pending
	}
	c.applyAlternative(*pending)
	c.st.Combo.AlternativeModeChange = nil
	return Applied
}

func (c *Coordinator) applyAlternative(targetOn bool) {
	c.st.Alternative = targetOn
	c.eff.NotifyAlternative(targetOn)
}

// --- Keyboard layout reset ------------------------------------------------

// RequestResetKbdLayout queues or immediately applies a layout reset to
// group 0 (spec.md §4.D).
func (c *Coordinator) RequestResetKbdLayout() (Result, error) {
	if c.st.PressedKeys.IsEmpty() {
		return c.applyResetKbdLayout()
	}
	c.st.Combo.ResetKbdLayout = true
	return Pending, nil
}

// HandleResetKbdLayout is the per-event post-step. It is the first post-step
// run (spec.md §4.E step 4).
func (c *Coordinator) HandleResetKbdLayout() (Result, error) {
	if !c.st.Combo.ResetKbdLayout {
		return Skipped, nil
	}
	if !c.st.PressedKeys.IsEmpty() {
		return Pending, nil
	}
	return c.applyResetKbdLayout()
}

func (c *Coordinator) applyResetKbdLayout() (Result, error) {
	cur, err := c.driver.XkbGetCurrentLayout()
	if err != nil {
		return Skipped, fmt.Errorf("querying xkb layout: %w", err)
	}
	if cur == 0 {
		c.st.Combo.ResetKbdLayout = false
		return Skipped, nil
	}
	if err := c.driver.XkbSetGroup(0); err != nil {
		return Skipped, fmt.Errorf("resetting xkb group: %w", err)
	}
	c.st.Combo.ResetKbdLayout = false
	return Applied, nil
}
