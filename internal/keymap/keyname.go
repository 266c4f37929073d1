// Package keymap provides the pure, read-only lookup tables that translate
// between evdev codes, symbolic key names, and the X key codes emitted by
// the effector. Nothing in this package mutates after construction.
package keymap

// KeyName is a symbolic identifier for a key the daemon recognizes. It is
// the vocabulary the event interpreter classifies against; it never carries
// device- or protocol-specific detail.
type KeyName string

// Named keys referenced directly by the classifier (spec.md §3).
const (
	CapsLockKey     KeyName = "CapsLock"
	RealCapsLockKey KeyName = "RealCapsLock"
	EnterKey        KeyName = "Enter"
	FNKey           KeyName = "FN"
	InsertKey       KeyName = "Insert"
	EscapeKey       KeyName = "Escape"

	AltLeftKey  KeyName = "AltLeft"
	AltRightKey KeyName = "AltRight"

	ControlLeftKey  KeyName = "ControlLeft"
	ControlRightKey KeyName = "ControlRight"

	SuperLeftKey  KeyName = "SuperLeft"
	SuperRightKey KeyName = "SuperRight"

	ShiftLeftKey  KeyName = "ShiftLeft"
	ShiftRightKey KeyName = "ShiftRight"

	// ContextMenuKey is wired as an extra alias of ControlRightKey on
	// keyboards that bind their Menu key to Right Ctrl upstream.
	ContextMenuKey KeyName = "ContextMenu"
)

// Media keys recognized by the Apple media overlay (spec.md §4.E, C4).
const (
	MediaPlayPauseKey KeyName = "MediaPlayPause"
	MediaNextKey      KeyName = "MediaNext"
	MediaPrevKey      KeyName = "MediaPrev"
	MediaVolumeUpKey  KeyName = "MediaVolumeUp"
	MediaVolumeDownKey KeyName = "MediaVolumeDown"
	MediaMuteKey      KeyName = "MediaMute"
)

// Ordinary letters. Only a subset is named; the decode table in
// keycodes.go holds only the keys named in this package, so any other
// evdev code has no KeyName: AliasOf reports it as unknown and its events
// are dropped.
const (
	AKey KeyName = "A"
	XKey KeyName = "X"
)

// Digit row and function-key names, used by the Alternative-mode remap
// (digit row <-> F-keys, a common dual-use laptop layout).
const (
	Digit1Key KeyName = "Digit1"
	Digit2Key KeyName = "Digit2"
	Digit3Key KeyName = "Digit3"
	Digit4Key KeyName = "Digit4"
	Digit5Key KeyName = "Digit5"
	Digit6Key KeyName = "Digit6"
	Digit7Key KeyName = "Digit7"
	Digit8Key KeyName = "Digit8"
	Digit9Key KeyName = "Digit9"
	Digit0Key KeyName = "Digit0"

	F1Key  KeyName = "F1"
	F2Key  KeyName = "F2"
	F3Key  KeyName = "F3"
	F4Key  KeyName = "F4"
	F5Key  KeyName = "F5"
	F6Key  KeyName = "F6"
	F7Key  KeyName = "F7"
	F8Key  KeyName = "F8"
	F9Key  KeyName = "F9"
	F10Key KeyName = "F10"
)

// AllModifierNames are the eight named modifiers making up allModifiersKeys
// before extra_keys are unioned in (spec.md §4.E).
var AllModifierNames = []KeyName{
	AltLeftKey, AltRightKey,
	ControlLeftKey, ControlRightKey,
	SuperLeftKey, SuperRightKey,
	ShiftLeftKey, ShiftRightKey,
}
