package keymap

// EvdevCode is a raw Linux evdev key code, as read from input_event.code
// (linux/input-event-codes.h).
type EvdevCode uint16

// Evdev codes for the keys the daemon cares about. Names follow the kernel
// header naming, trimmed of the KEY_ prefix used elsewhere in the pack's
// evdev bindings (grounded on the teacher's internal/mappings/keycodes.go).
const (
	evEsc        EvdevCode = 1
	evA          EvdevCode = 30
	evX          EvdevCode = 45
	evEnter      EvdevCode = 28
	evLeftCtrl   EvdevCode = 29
	evLeftShift  EvdevCode = 42
	evRightShift EvdevCode = 54
	evLeftAlt    EvdevCode = 56
	evCapsLock   EvdevCode = 58
	evRightCtrl  EvdevCode = 97
	evRightAlt   EvdevCode = 100
	evLeftMeta   EvdevCode = 125
	evRightMeta  EvdevCode = 126
	evMenu       EvdevCode = 127
	evInsert     EvdevCode = 110
	evFN         EvdevCode = 464 // vendor-specific FN key, as reported by Apple keyboards under hid-apple
	evPlayPause  EvdevCode = 164
	evNextSong   EvdevCode = 163
	evPrevSong   EvdevCode = 165
	evVolumeUp   EvdevCode = 115
	evVolumeDown EvdevCode = 114
	evMute       EvdevCode = 113

	evDigit1 EvdevCode = 2
	evDigit2 EvdevCode = 3
	evDigit3 EvdevCode = 4
	evDigit4 EvdevCode = 5
	evDigit5 EvdevCode = 6
	evDigit6 EvdevCode = 7
	evDigit7 EvdevCode = 8
	evDigit8 EvdevCode = 9
	evDigit9 EvdevCode = 10
	evDigit0 EvdevCode = 11

	evF1  EvdevCode = 59
	evF2  EvdevCode = 60
	evF3  EvdevCode = 61
	evF4  EvdevCode = 62
	evF5  EvdevCode = 63
	evF6  EvdevCode = 64
	evF7  EvdevCode = 65
	evF8  EvdevCode = 66
	evF9  EvdevCode = 67
	evF10 EvdevCode = 68
)

// XKeyCode is a key code in the X11 protocol's numbering, which is the
// evdev/Linux code offset by 8 (X11 reserves codes 0-7).
type XKeyCode uint8

func xCodeFromEvdev(code EvdevCode) XKeyCode {
	return XKeyCode(code + 8)
}

// keyInfo is the immutable record backing one KeyName's entry in the table.
type keyInfo struct {
	evdevCode    EvdevCode
	xKeyCode     XKeyCode
	realXKeyCode XKeyCode // hardware key code before this daemon's own remap
	asName       KeyName  // name logged as the remap target; defaults to self
	altName      KeyName  // alternative-mode remap target, "" if none
	altCode      XKeyCode
	isMedia      bool
	extraKeys    []KeyName // upstream aliases counted as this modifier
}

var table = map[KeyName]keyInfo{
	CapsLockKey: {
		evdevCode:    evCapsLock,
		xKeyCode:     xCodeFromEvdev(evEsc),
		realXKeyCode: xCodeFromEvdev(evCapsLock),
		asName:       EscapeKey,
	},
	RealCapsLockKey: {
		evdevCode:    evCapsLock,
		xKeyCode:     xCodeFromEvdev(evCapsLock),
		realXKeyCode: xCodeFromEvdev(evCapsLock),
		asName:       RealCapsLockKey,
	},
	EnterKey: {
		evdevCode:    evEnter,
		xKeyCode:     xCodeFromEvdev(evEnter),
		realXKeyCode: xCodeFromEvdev(evEnter),
		asName:       EnterKey,
	},
	FNKey: {
		evdevCode: evFN,
		// FN's evdev code (464, a vendor-specific hid-apple value) is well
		// outside the X11 keycode range (8-255), and FN's own code is never
		// actually emitted to X: C3 always either forwards nothing (press),
		// triggers Insert, or releases the held media keys under their own
		// codes. xCodeFromEvdev would silently wrap it into another key's
		// codespace, so this stays an explicit placeholder instead.
		xKeyCode: 0,
		asName:   FNKey,
	},
	InsertKey: {
		evdevCode:    evInsert,
		xKeyCode:     xCodeFromEvdev(evInsert),
		realXKeyCode: xCodeFromEvdev(evInsert),
		asName:       InsertKey,
	},
	AltLeftKey: {
		evdevCode: evLeftAlt,
		xKeyCode:  xCodeFromEvdev(evLeftAlt),
		asName:    AltLeftKey,
	},
	AltRightKey: {
		evdevCode: evRightAlt,
		xKeyCode:  xCodeFromEvdev(evRightAlt),
		asName:    AltRightKey,
	},
	ControlLeftKey: {
		evdevCode: evLeftCtrl,
		xKeyCode:  xCodeFromEvdev(evLeftCtrl),
		asName:    ControlLeftKey,
	},
	ControlRightKey: {
		evdevCode: evRightCtrl,
		xKeyCode:  xCodeFromEvdev(evRightCtrl),
		asName:    ControlRightKey,
		// Some compact keyboards report a dedicated Menu key wired as
		// Right Ctrl upstream; it must count as Right Ctrl when
		// computing the modifier set.
		extraKeys: []KeyName{ContextMenuKey},
	},
	SuperLeftKey: {
		evdevCode: evLeftMeta,
		xKeyCode:  xCodeFromEvdev(evLeftMeta),
		asName:    SuperLeftKey,
	},
	SuperRightKey: {
		evdevCode: evRightMeta,
		xKeyCode:  xCodeFromEvdev(evRightMeta),
		asName:    SuperRightKey,
	},
	ShiftLeftKey: {
		evdevCode: evLeftShift,
		xKeyCode:  xCodeFromEvdev(evLeftShift),
		asName:    ShiftLeftKey,
	},
	ShiftRightKey: {
		evdevCode: evRightShift,
		xKeyCode:  xCodeFromEvdev(evRightShift),
		asName:    ShiftRightKey,
	},
	ContextMenuKey: {
		evdevCode: evMenu,
		xKeyCode:  xCodeFromEvdev(evMenu),
		asName:    ContextMenuKey,
	},
	MediaPlayPauseKey: {
		evdevCode: evPlayPause,
		xKeyCode:  xCodeFromEvdev(evPlayPause),
		asName:    MediaPlayPauseKey,
		isMedia:   true,
	},
	MediaNextKey: {
		evdevCode: evNextSong,
		xKeyCode:  xCodeFromEvdev(evNextSong),
		asName:    MediaNextKey,
		isMedia:   true,
	},
	MediaPrevKey: {
		evdevCode: evPrevSong,
		xKeyCode:  xCodeFromEvdev(evPrevSong),
		asName:    MediaPrevKey,
		isMedia:   true,
	},
	MediaVolumeUpKey: {
		evdevCode: evVolumeUp,
		xKeyCode:  xCodeFromEvdev(evVolumeUp),
		asName:    MediaVolumeUpKey,
		isMedia:   true,
	},
	MediaVolumeDownKey: {
		evdevCode: evVolumeDown,
		xKeyCode:  xCodeFromEvdev(evVolumeDown),
		asName:    MediaVolumeDownKey,
		isMedia:   true,
	},
	MediaMuteKey: {
		evdevCode: evMute,
		xKeyCode:  xCodeFromEvdev(evMute),
		asName:    MediaMuteKey,
		isMedia:   true,
	},
	AKey: {
		evdevCode: evA,
		xKeyCode:  xCodeFromEvdev(evA),
		asName:    AKey,
	},
	XKey: {
		evdevCode: evX,
		xKeyCode:  xCodeFromEvdev(evX),
		asName:    XKey,
	},
	Digit1Key: {evdevCode: evDigit1, xKeyCode: xCodeFromEvdev(evDigit1), asName: Digit1Key, altName: F1Key, altCode: xCodeFromEvdev(evF1)},
	Digit2Key: {evdevCode: evDigit2, xKeyCode: xCodeFromEvdev(evDigit2), asName: Digit2Key, altName: F2Key, altCode: xCodeFromEvdev(evF2)},
	Digit3Key: {evdevCode: evDigit3, xKeyCode: xCodeFromEvdev(evDigit3), asName: Digit3Key, altName: F3Key, altCode: xCodeFromEvdev(evF3)},
	Digit4Key: {evdevCode: evDigit4, xKeyCode: xCodeFromEvdev(evDigit4), asName: Digit4Key, altName: F4Key, altCode: xCodeFromEvdev(evF4)},
	Digit5Key: {evdevCode: evDigit5, xKeyCode: xCodeFromEvdev(evDigit5), asName: Digit5Key, altName: F5Key, altCode: xCodeFromEvdev(evF5)},
	Digit6Key: {evdevCode: evDigit6, xKeyCode: xCodeFromEvdev(evDigit6), asName: Digit6Key, altName: F6Key, altCode: xCodeFromEvdev(evF6)},
	Digit7Key: {evdevCode: evDigit7, xKeyCode: xCodeFromEvdev(evDigit7), asName: Digit7Key, altName: F7Key, altCode: xCodeFromEvdev(evF7)},
	Digit8Key: {evdevCode: evDigit8, xKeyCode: xCodeFromEvdev(evDigit8), asName: Digit8Key, altName: F8Key, altCode: xCodeFromEvdev(evF8)},
	Digit9Key: {evdevCode: evDigit9, xKeyCode: xCodeFromEvdev(evDigit9), asName: Digit9Key, altName: F9Key, altCode: xCodeFromEvdev(evF9)},
	Digit0Key: {evdevCode: evDigit0, xKeyCode: xCodeFromEvdev(evDigit0), asName: Digit0Key, altName: F10Key, altCode: xCodeFromEvdev(evF10)},
	F1Key:     {evdevCode: evF1, xKeyCode: xCodeFromEvdev(evF1), asName: F1Key},
	F2Key:     {evdevCode: evF2, xKeyCode: xCodeFromEvdev(evF2), asName: F2Key},
	F3Key:     {evdevCode: evF3, xKeyCode: xCodeFromEvdev(evF3), asName: F3Key},
	F4Key:     {evdevCode: evF4, xKeyCode: xCodeFromEvdev(evF4), asName: F4Key},
	F5Key:     {evdevCode: evF5, xKeyCode: xCodeFromEvdev(evF5), asName: F5Key},
	F6Key:     {evdevCode: evF6, xKeyCode: xCodeFromEvdev(evF6), asName: F6Key},
	F7Key:     {evdevCode: evF7, xKeyCode: xCodeFromEvdev(evF7), asName: F7Key},
	F8Key:     {evdevCode: evF8, xKeyCode: xCodeFromEvdev(evF8), asName: F8Key},
	F9Key:     {evdevCode: evF9, xKeyCode: xCodeFromEvdev(evF9), asName: F9Key},
	F10Key:    {evdevCode: evF10, xKeyCode: xCodeFromEvdev(evF10), asName: F10Key},
}

var reverse map[EvdevCode]KeyName

func init() {
	reverse = make(map[EvdevCode]KeyName, len(table))
	for name, info := range table {
		// RealCapsLockKey shares CapsLockKey's evdev code on purpose; the
		// decode table must resolve to the remapped name, so it wins.
		if name == RealCapsLockKey {
			continue
		}
		reverse[info.evdevCode] = name
	}
}
