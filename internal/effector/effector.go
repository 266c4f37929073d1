// Package effector is the thin side-effect layer described in spec.md
// §4.C: XTest press/release wrappers, status-bar notification, and log
// lines. It never reads or writes State itself.
package effector

import (
	"log/slog"

	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/notify"
	"github.com/caps11d/caps11d/internal/xdriver"
)

// Effector is the fire-and-forget side-effect boundary used by the mode
// coordinator and event interpreter.
type Effector struct {
	driver xdriver.Driver
	bus    notify.Bus
	xmobar *notify.XmobarWriter
	log    *slog.Logger
}

// New builds an Effector. xmobar may be nil when --xmobar-pipe was not set.
func New(driver xdriver.Driver, bus notify.Bus, xmobar *notify.XmobarWriter, log *slog.Logger) *Effector {
	return &Effector{driver: driver, bus: bus, xmobar: xmobar, log: log}
}

// Press synthesizes a key-down via XTest.
func (e *Effector) Press(code keymap.XKeyCode) error {
	e.log.Debug("x11: press", "code", code)
	if err := e.driver.PressKey(code); err != nil {
		e.log.Error("x11: press failed", "code", code, "error", err)
		return err
	}
	return nil
}

// Release synthesizes a key-up via XTest.
func (e *Effector) Release(code keymap.XKeyCode) error {
	e.log.Debug("x11: release", "code", code)
	if err := e.driver.ReleaseKey(code); err != nil {
		e.log.Error("x11: release failed", "code", code, "error", err)
		return err
	}
	return nil
}

// PressRelease synthesizes a press immediately followed by a release.
func (e *Effector) PressRelease(code keymap.XKeyCode) error {
	if err := e.Press(code); err != nil {
		return err
	}
	return e.Release(code)
}

// ChangeCapsLock toggles the real Caps Lock key at X, which flips the
// hardware lock state and its LED (spec.md §4.C).
func (e *Effector) ChangeCapsLock(code keymap.XKeyCode) error {
	return e.PressRelease(code)
}

// NotifyAlternative emits "alternative:on"/"alternative:off" to the status
// bar. IPC failures are logged, never fatal (spec.md §7, error kind 4).
func (e *Effector) NotifyAlternative(on bool) {
	msg := "alternative:off"
	if on {
		msg = "alternative:on"
	}
	e.Noise(msg)
	if err := e.bus.EmitAlternative(on); err != nil {
		e.log.Warn("ipc emit failed", "signal", "alternative", "error", err)
	}
	e.NotifyXmobar(msg)
}

// NotifyCapsLock emits the capslock indicator, mirroring NotifyAlternative.
func (e *Effector) NotifyCapsLock(on bool) {
	if err := e.bus.EmitCapslock(on); err != nil {
		e.log.Warn("ipc emit failed", "signal", "capslock", "error", err)
	}
}

// Noise logs a debug-level trace line (spec.md §4.C).
func (e *Effector) Noise(msg string, args ...any) {
	e.log.Debug(msg, args...)
}

// NotifyXmobar writes msg to the configured xmobar pipe, if any. A missing
// pipe is not an error: the flag is optional.
func (e *Effector) NotifyXmobar(msg string) {
	if e.xmobar == nil {
		return
	}
	if err := e.xmobar.Write(msg); err != nil {
		e.log.Warn("xmobar pipe write failed", "error", err)
	}
}
