// Package xdriver is the X11 binding layer: the thin wrapper over XTest
// synthetic input and the X keyboard extension that spec.md §1 calls out
// as an abstract collaborator. Driver is the seam the event interpreter
// and mode coordinator depend on; ImplDriver (driver_xgb.go) is the real
// X11 implementation, FakeDriver (fake.go) is the in-memory test double.
package xdriver

import "github.com/caps11d/caps11d/internal/keymap"

// Driver is the set of X11 primitives named in spec.md §6: press_key,
// release_key, fake_key_event, get_leds, xkb_get_current_layout,
// xkb_set_group.
type Driver interface {
	// PressKey synthesizes a key-down for code via XTest.
	PressKey(code keymap.XKeyCode) error
	// ReleaseKey synthesizes a key-up for code via XTest.
	ReleaseKey(code keymap.XKeyCode) error
	// FakeKeyEvent synthesizes a single press or release for code.
	FakeKeyEvent(code keymap.XKeyCode, isPress bool) error

	// GetLEDs reads the current Caps Lock and Num Lock indicator state.
	GetLEDs() (capsLock bool, numLock bool, err error)

	// XkbGetCurrentLayout returns the active XKB group index.
	XkbGetCurrentLayout() (int, error)
	// XkbSetGroup switches the active XKB group.
	XkbSetGroup(group int) error

	// WatchFocus starts a window-focus watcher; onChange is invoked
	// (from the watcher's own goroutine) whenever the active window
	// changes, until the returned stop func is called. Used for
	// --disable-reset-by-window-focus-event (spec.md §6).
	WatchFocus(onChange func()) (stop func(), err error)

	// Close releases the underlying X connection.
	Close() error
}
