package interp

import (
	"io"
	"log/slog"
	"testing"

	"github.com/caps11d/caps11d/internal/effector"
	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/mode"
	"github.com/caps11d/caps11d/internal/notify"
	"github.com/caps11d/caps11d/internal/state"
	"github.com/caps11d/caps11d/internal/xdriver"
)

func newHarness(t *testing.T, cfg Config) (*Interpreter, *xdriver.FakeDriver, *notify.FakeBus) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	km := keymap.New()
	st := state.New()
	drv := xdriver.NewFakeDriver()
	bus := notify.NewFakeBus()
	eff := effector.New(drv, bus, nil, log)
	coord := mode.New(st, eff, drv, km, log)
	ip := New(km, st, eff, coord, cfg, log)
	return ip, drv, bus
}

func codeOf(t *testing.T, km *keymap.Keymap, name keymap.KeyName) keymap.XKeyCode {
	t.Helper()
	code, ok := km.KeyCode(name)
	if !ok {
		t.Fatalf("no key code for %s", name)
	}
	return code
}

// Scenario 1: press CapsLock; release CapsLock -> PR(Escape code).
func TestCapsLockAloneEmitsEscape(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	escCode := codeOf(t, km, keymap.EscapeKey)

	must(t, ip.HandleEvent(keymap.CapsLockKey, true))
	must(t, ip.HandleEvent(keymap.CapsLockKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: escCode, On: true},
		{Kind: "release", Code: escCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Scenario 2: press CapsLock; press A; release A; release CapsLock ->
// P(LeftCtrl); PR(A); R(LeftCtrl).
func TestCapsLockComboUpgradesToControl(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	ctrlCode := codeOf(t, km, keymap.ControlLeftKey)
	aCode := codeOf(t, km, keymap.AKey)

	must(t, ip.HandleEvent(keymap.CapsLockKey, true))
	must(t, ip.HandleEvent(keymap.AKey, true))
	must(t, ip.HandleEvent(keymap.AKey, false))
	must(t, ip.HandleEvent(keymap.CapsLockKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: ctrlCode, On: true},
		{Kind: "press", Code: aCode, On: true},
		{Kind: "release", Code: aCode, On: false},
		{Kind: "release", Code: ctrlCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Scenario 3: press Shift; press Enter; release Enter; release Shift ->
// P(Shift); PR(Enter); R(Shift). Enter is not upgraded to Ctrl.
func TestEnterWithModsDoesNotUpgrade(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	shiftCode := codeOf(t, km, keymap.ShiftLeftKey)
	enterCode := codeOf(t, km, keymap.EnterKey)

	must(t, ip.HandleEvent(keymap.ShiftLeftKey, true))
	must(t, ip.HandleEvent(keymap.EnterKey, true))
	must(t, ip.HandleEvent(keymap.EnterKey, false))
	must(t, ip.HandleEvent(keymap.ShiftLeftKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: shiftCode, On: true},
		{Kind: "press", Code: enterCode, On: true},
		{Kind: "release", Code: enterCode, On: false},
		{Kind: "release", Code: shiftCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Scenario 4: press Enter; press X; release X; release Enter ->
// P(RightCtrl); PR(X); R(RightCtrl).
func TestEnterComboUpgradesToRightControl(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	ctrlCode := codeOf(t, km, keymap.ControlRightKey)
	xCode := codeOf(t, km, keymap.XKey)

	must(t, ip.HandleEvent(keymap.EnterKey, true))
	must(t, ip.HandleEvent(keymap.XKey, true))
	must(t, ip.HandleEvent(keymap.XKey, false))
	must(t, ip.HandleEvent(keymap.EnterKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: ctrlCode, On: true},
		{Kind: "press", Code: xCode, On: true},
		{Kind: "release", Code: xCode, On: false},
		{Kind: "release", Code: ctrlCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Scenario 5: press AltLeft; press AltRight; release AltRight; release
// AltLeft -> R(AltLeft) (AltRight's press never reached X), then
// Alternative flips, no Alt key left held at X, and IPC emits
// alternative:on.
func TestBothAltsToggleAlternative(t *testing.T) {
	ip, drv, bus := newHarness(t, DefaultConfig())
	km := keymap.New()
	leftCode := codeOf(t, km, keymap.AltLeftKey)

	must(t, ip.HandleEvent(keymap.AltLeftKey, true))
	must(t, ip.HandleEvent(keymap.AltRightKey, true))

	// AltLeft's own press reached X from the first event; AltRight's press
	// never did, since C2 intercepts it before the default case would fire.
	// Only AltLeft gets a matching release (spec.md §8 invariant 1).
	wantOps := []xdriver.Op{
		{Kind: "press", Code: leftCode, On: true},
		{Kind: "release", Code: leftCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)

	if !ip.st.Alternative {
		t.Fatalf("expected Alternative mode to be on after both-Alts chord")
	}
	if ip.st.PressedKeys.Contains(keymap.AltLeftKey) || ip.st.PressedKeys.Contains(keymap.AltRightKey) {
		t.Fatalf("expected both Alt keys removed from pressedKeys")
	}
	if len(bus.Emissions) != 1 || bus.Emissions[0].Member != "alternative" || !bus.Emissions[0].On {
		t.Fatalf("expected a single alternative:on emission, got %+v", bus.Emissions)
	}
}

// Scenario 6: press FN; press MediaPlay; release MediaPlay; release FN ->
// PR(MediaPlay code) only; no Insert.
func TestAppleMediaOverlaySuppressesInsert(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	mediaCode := codeOf(t, km, keymap.MediaPlayPauseKey)

	must(t, ip.HandleEvent(keymap.FNKey, true))
	must(t, ip.HandleEvent(keymap.MediaPlayPauseKey, true))
	must(t, ip.HandleEvent(keymap.MediaPlayPauseKey, false))
	must(t, ip.HandleEvent(keymap.FNKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: mediaCode, On: true},
		{Kind: "release", Code: mediaCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Boundary case: lone FN press+release -> press(Insert); release(Insert).
func TestLoneFNActsAsInsert(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	insertCode := codeOf(t, km, keymap.InsertKey)

	must(t, ip.HandleEvent(keymap.FNKey, true))
	must(t, ip.HandleEvent(keymap.FNKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: insertCode, On: true},
		{Kind: "release", Code: insertCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// Boundary case: two Controls pressed -> Caps Lock toggles, no Control left
// held at X.
func TestTwoControlsToggleCapsLock(t *testing.T) {
	ip, drv, bus := newHarness(t, DefaultConfig())
	km := keymap.New()
	leftCode := codeOf(t, km, keymap.ControlLeftKey)
	realCapsCode := codeOf(t, km, keymap.RealCapsLockKey)

	must(t, ip.HandleEvent(keymap.ControlLeftKey, true))
	must(t, ip.HandleEvent(keymap.ControlRightKey, true))

	// ControlLeft's own press reached X from the first event; ControlRight's
	// press never did, since C5 intercepts it before the default case would
	// fire. Only ControlLeft gets a matching release (spec.md §8 invariant 1).
	// Both Controls now being released leaves pressedKeys empty, so the
	// queued Caps Lock toggle applies immediately: change_caps_lock presses
	// and releases the real hardware Caps Lock code.
	wantOps := []xdriver.Op{
		{Kind: "press", Code: leftCode, On: true},
		{Kind: "release", Code: leftCode, On: false},
		{Kind: "press", Code: realCapsCode, On: true},
		{Kind: "release", Code: realCapsCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)

	if !ip.st.Leds.CapsLockLed {
		t.Fatalf("expected Caps Lock LED state to toggle on")
	}
	found := false
	for _, e := range bus.Emissions {
		if e.Member == "capslock" && e.On {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a capslock:on emission, got %+v", bus.Emissions)
	}
}

// C5's other chord: CapsLock and Enter held together (with
// additionalControls on) also toggles Caps Lock. With nothing else held,
// neither control upgrade (C7/C8) has happened yet, so this must not emit
// any release for ControlLeft/ControlRight, nor for CapsLock/Enter's own
// codes (spec.md §9 Open Question (b); §8 invariant 1).
func TestCapsLockAndEnterChordTogglesCapsLockWithoutSpuriousReleases(t *testing.T) {
	ip, drv, bus := newHarness(t, DefaultConfig())
	realCapsCode := codeOf(t, ip.km, keymap.RealCapsLockKey)

	must(t, ip.HandleEvent(keymap.CapsLockKey, true))
	must(t, ip.HandleEvent(keymap.EnterKey, true))

	// No Control code was ever upgraded-to (no third key was held), and
	// neither CapsLock nor Enter's own code was ever pressed at X (C7
	// withholds output on press). pressedKeys is now empty, so the queued
	// Caps Lock toggle applies immediately, same as the bothCtrl case.
	wantOps := []xdriver.Op{
		{Kind: "press", Code: realCapsCode, On: true},
		{Kind: "release", Code: realCapsCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)

	if !ip.st.Leds.CapsLockLed {
		t.Fatalf("expected Caps Lock LED state to toggle on")
	}
	if ip.st.PressedKeys.Contains(keymap.CapsLockKey) || ip.st.PressedKeys.Contains(keymap.EnterKey) {
		t.Fatalf("expected both CapsLock and Enter removed from pressedKeys")
	}
	found := false
	for _, e := range bus.Emissions {
		if e.Member == "capslock" && e.On {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a capslock:on emission, got %+v", bus.Emissions)
	}
}

// Duplicate events are dropped silently (spec.md §4.E step 1, §7 kind 5).
func TestDuplicatePressIsDropped(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())

	must(t, ip.HandleEvent(keymap.AKey, true))
	before := len(drv.Ops)
	must(t, ip.HandleEvent(keymap.AKey, true)) // duplicate press
	if len(drv.Ops) != before {
		t.Fatalf("expected duplicate press to be a no-op, ops grew from %d to %d", before, len(drv.Ops))
	}
}

// Idempotence: feeding the same event twice in a row produces the
// side-effects of feeding it once.
func TestIdempotenceOnDuplicate(t *testing.T) {
	ip1, drv1, _ := newHarness(t, DefaultConfig())
	must(t, ip1.HandleEvent(keymap.AKey, true))

	ip2, drv2, _ := newHarness(t, DefaultConfig())
	must(t, ip2.HandleEvent(keymap.AKey, true))
	must(t, ip2.HandleEvent(keymap.AKey, true))

	assertOps(t, drv1.Ops, drv2.Ops)
}

// Alternative mode remaps the digit row to the function-key row.
func TestAlternativeModeRemapsDigitToFKey(t *testing.T) {
	ip, drv, _ := newHarness(t, DefaultConfig())
	km := keymap.New()
	f1Code := codeOf(t, km, keymap.F1Key)
	digit1Code := codeOf(t, km, keymap.Digit1Key)

	// Turn Alternative mode on via the both-Alts chord.
	must(t, ip.HandleEvent(keymap.AltLeftKey, true))
	must(t, ip.HandleEvent(keymap.AltRightKey, true))
	drv.Ops = nil

	must(t, ip.HandleEvent(keymap.Digit1Key, true))
	must(t, ip.HandleEvent(keymap.Digit1Key, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: f1Code, On: true},
		{Kind: "release", Code: f1Code, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
	if drv.PressCodes()[0] == digit1Code {
		t.Fatalf("expected Alternative mode to remap Digit1 to F1, not its own code")
	}
}

// --additionalControls disabled: Caps Lock still remaps to Escape via C9,
// but never upgrades to a control key.
func TestCapsLockEscapeWithoutAdditionalControls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdditionalControls = false
	ip, drv, _ := newHarness(t, cfg)
	km := keymap.New()
	escCode := codeOf(t, km, keymap.EscapeKey)
	aCode := codeOf(t, km, keymap.AKey)

	must(t, ip.HandleEvent(keymap.CapsLockKey, true))
	must(t, ip.HandleEvent(keymap.AKey, true))
	must(t, ip.HandleEvent(keymap.AKey, false))
	must(t, ip.HandleEvent(keymap.CapsLockKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: escCode, On: true},
		{Kind: "press", Code: aCode, On: true},
		{Kind: "release", Code: aCode, On: false},
		{Kind: "release", Code: escCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

// --real-capslock keeps Caps Lock as the real hardware key.
func TestRealCapsLockBypassesEscapeRemap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RealCapsLock = true
	cfg.ResetByEscapeOnCapsLock = false
	cfg.AdditionalControls = false
	ip, drv, _ := newHarness(t, cfg)
	km := keymap.New()
	realCode := codeOf(t, km, keymap.RealCapsLockKey)

	must(t, ip.HandleEvent(keymap.CapsLockKey, true))
	must(t, ip.HandleEvent(keymap.CapsLockKey, false))

	wantOps := []xdriver.Op{
		{Kind: "press", Code: realCode, On: true},
		{Kind: "release", Code: realCode, On: false},
	}
	assertOps(t, drv.Ops, wantOps)
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertOps(t *testing.T, got, want []xdriver.Op) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("op count mismatch: got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
