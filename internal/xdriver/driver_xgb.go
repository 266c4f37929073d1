package xdriver

import (
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/caps11d/caps11d/internal/keymap"
)

// ImplDriver is the production Driver, backed by an XGB connection and the
// XTest extension (grounded on the X11 connection/XTest FakeInput pattern
// in the pack's own XGB users: miken90/fkey's keyboard_x11.go and
// Alijeyrad/gotalk-dictation's hotkey manager).
type ImplDriver struct {
	conn *xgb.Conn
	root xproto.Window
	log  *slog.Logger
}

// NewImplDriver opens a new X11 connection and initializes the XTest
// extension (spec.md §6.2).
func NewImplDriver(log *slog.Logger) (*ImplDriver, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X11: %w", err)
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing XTest extension: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	return &ImplDriver{conn: conn, root: root, log: log}, nil
}

func (d *ImplDriver) fakeInput(eventType byte, code keymap.XKeyCode) error {
	return xtest.FakeInputChecked(d.conn, eventType, byte(code), 0, d.root, 0, 0, 0).Check()
}

// PressKey implements Driver.
func (d *ImplDriver) PressKey(code keymap.XKeyCode) error {
	if err := d.fakeInput(xproto.KeyPress, code); err != nil {
		return fmt.Errorf("XTest key press (code=%d): %w", code, err)
	}
	return nil
}

// ReleaseKey implements Driver.
func (d *ImplDriver) ReleaseKey(code keymap.XKeyCode) error {
	if err := d.fakeInput(xproto.KeyRelease, code); err != nil {
		return fmt.Errorf("XTest key release (code=%d): %w", code, err)
	}
	return nil
}

// FakeKeyEvent implements Driver.
func (d *ImplDriver) FakeKeyEvent(code keymap.XKeyCode, isPress bool) error {
	if isPress {
		return d.PressKey(code)
	}
	return d.ReleaseKey(code)
}

// GetLEDs implements Driver using the core protocol's GetKeyboardControl
// reply, whose
// LedMask bit 0 is Caps Lock and bit 1 is Num Lock on every layout this
// daemon targets.
func (d *ImplDriver) GetLEDs() (capsLock bool, numLock bool, err error) {
	reply, err := xproto.GetKeyboardControl(d.conn).Reply()
	if err != nil {
		return false, false, fmt.Errorf("GetKeyboardControl: %w", err)
	}
	capsLock = reply.LedMask&0x1 != 0
	numLock = reply.LedMask&0x2 != 0
	return capsLock, numLock, nil
}

// XkbGetCurrentLayout implements Driver via the XKB extension's GetState
// request, which reports the currently active group.
func (d *ImplDriver) XkbGetCurrentLayout() (int, error) {
	reply, err := xkbGetState(d.conn)
	if err != nil {
		return 0, fmt.Errorf("xkb GetState: %w", err)
	}
	return int(reply.Group), nil
}

// XkbSetGroup implements Driver via the XKB extension's LatchLockState
// request with LockGroup set, which is the XKB-native equivalent of
// setxkbmap's group switch.
func (d *ImplDriver) XkbSetGroup(group int) error {
	if err := xkbSetGroup(d.conn, byte(group)); err != nil {
		return fmt.Errorf("xkb SetGroup(%d): %w", group, err)
	}
	return nil
}

// WatchFocus implements Driver by selecting PropertyNotify on the root
// window and filtering for _NET_ACTIVE_WINDOW changes.
func (d *ImplDriver) WatchFocus(onChange func()) (stop func(), err error) {
	atom, err := internAtom(d.conn, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("interning _NET_ACTIVE_WINDOW: %w", err)
	}

	mask := uint32(xproto.EventMaskPropertyChange)
	if err := xproto.ChangeWindowAttributesChecked(d.conn, d.root, xproto.CwEventMask, []uint32{mask}).Check(); err != nil {
		return nil, fmt.Errorf("selecting PropertyNotify on root window: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			ev, err := d.conn.WaitForEvent()
			if err != nil {
				d.log.Warn("x11 focus watcher: event wait failed", "error", err)
				return
			}
			if pn, ok := ev.(xproto.PropertyNotifyEvent); ok && pn.Atom == atom {
				onChange()
			}
		}
	}()

	return func() { close(done) }, nil
}

// Close implements Driver.
func (d *ImplDriver) Close() error {
	d.conn.Close()
	return nil
}
