package xdriver

import "github.com/caps11d/caps11d/internal/keymap"

// Op is one recorded call against a FakeDriver, in call order.
type Op struct {
	Kind string // "press" or "release"; XkbSetGroup only updates Layout
	Code keymap.XKeyCode
	On   bool // for press/release: true=press
}

// FakeDriver is an in-memory Driver used by the interpreter and mode
// coordinator tests to assert the exact X event sequence spec.md §8 names.
type FakeDriver struct {
	Ops []Op

	CapsLockLed bool
	NumLockLed  bool
	Layout      int

	// FailXkbSetGroup, if set, is returned by XkbSetGroup to exercise the
	// fatal-error path (spec.md §7, error kind 3).
	FailXkbSetGroup error
}

// NewFakeDriver returns a FakeDriver with LEDs off and layout 0.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

func (f *FakeDriver) PressKey(code keymap.XKeyCode) error {
	f.Ops = append(f.Ops, Op{Kind: "press", Code: code, On: true})
	return nil
}

func (f *FakeDriver) ReleaseKey(code keymap.XKeyCode) error {
	f.Ops = append(f.Ops, Op{Kind: "release", Code: code, On: false})
	return nil
}

func (f *FakeDriver) FakeKeyEvent(code keymap.XKeyCode, isPress bool) error {
	if isPress {
		return f.PressKey(code)
	}
	return f.ReleaseKey(code)
}

func (f *FakeDriver) GetLEDs() (bool, bool, error) {
	return f.CapsLockLed, f.NumLockLed, nil
}

func (f *FakeDriver) XkbGetCurrentLayout() (int, error) {
	return f.Layout, nil
}

func (f *FakeDriver) XkbSetGroup(group int) error {
	if f.FailXkbSetGroup != nil {
		return f.FailXkbSetGroup
	}
	f.Layout = group
	return nil
}

func (f *FakeDriver) WatchFocus(onChange func()) (func(), error) {
	return func() {}, nil
}

func (f *FakeDriver) Close() error { return nil }

// PressCodes returns the codes pressed, in call order.
func (f *FakeDriver) PressCodes() []keymap.XKeyCode {
	var out []keymap.XKeyCode
	for _, op := range f.Ops {
		if op.Kind == "press" {
			out = append(out, op.Code)
		}
	}
	return out
}
