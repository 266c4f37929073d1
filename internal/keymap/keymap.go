package keymap

// AlternativeMapping is the (KeyName, X key code) pair a key resolves to
// while Alternative mode is on (spec.md §4.A, "alternative").
type AlternativeMapping struct {
	Name KeyName
	Code XKeyCode
}

// Keymap is the immutable lookup table described in spec.md §4.A. The zero
// value is ready to use; it is backed by the package-level static table
// built in keycodes.go, so every Keymap value is equivalent.
type Keymap struct{}

// New returns a ready-to-use Keymap. It takes no arguments because the
// table is a static compiled-in fact of the daemon, matching the teacher's
// treatment of its own key-code tables as package-level data
// (internal/mappings/keycodes.go in the teacher repo).
func New() *Keymap {
	return &Keymap{}
}

// AliasOf decodes a raw evdev code into its KeyName, if the daemon
// recognizes it. ok is false for unknown codes (spec.md §7, error kind 1).
func (k *Keymap) AliasOf(code EvdevCode) (name KeyName, ok bool) {
	name, ok = reverse[code]
	return name, ok
}

// KeyCode returns the X key code the daemon emits for name.
func (k *Keymap) KeyCode(name KeyName) (XKeyCode, bool) {
	info, ok := table[name]
	if !ok {
		return 0, false
	}
	return info.xKeyCode, true
}

// RealKeyCode returns the X key code of the hardware key behind name,
// before this daemon's own remap (spec.md §4.A). For most keys this is the
// same as KeyCode; CapsLockKey's real code is the physical Caps Lock key.
func (k *Keymap) RealKeyCode(name KeyName) (XKeyCode, bool) {
	info, ok := table[name]
	if !ok {
		return 0, false
	}
	if info.realXKeyCode != 0 {
		return info.realXKeyCode, true
	}
	return info.xKeyCode, true
}

// Alternative returns the Alternative-mode remap target for name, if any.
func (k *Keymap) Alternative(name KeyName) (AlternativeMapping, bool) {
	info, ok := table[name]
	if !ok || info.altName == "" {
		return AlternativeMapping{}, false
	}
	return AlternativeMapping{Name: info.altName, Code: info.altCode}, true
}

// IsMedia reports whether name is a media key recognized by the Apple
// media overlay (spec.md §4.E, C4).
func (k *Keymap) IsMedia(name KeyName) bool {
	return table[name].isMedia
}

// MediaCode returns the X key code for a media key, if name is one.
func (k *Keymap) MediaCode(name KeyName) (XKeyCode, bool) {
	info, ok := table[name]
	if !ok || !info.isMedia {
		return 0, false
	}
	return info.xKeyCode, true
}

// AsName returns the name logged as the remap target for name (e.g.
// CapsLockKey's as-name is EscapeKey when it is not the real hardware key).
func (k *Keymap) AsName(name KeyName) KeyName {
	info, ok := table[name]
	if !ok {
		return name
	}
	return info.asName
}

// ExtraKeys returns the set of KeyNames that upstream binds as aliases of
// name when it behaves as a modifier (spec.md §4.A).
func (k *Keymap) ExtraKeys(name KeyName) []KeyName {
	return table[name].extraKeys
}

// AllModifiersKeys returns the eight named modifiers unioned with every
// extra_keys() alias of each (spec.md §4.E).
func (k *Keymap) AllModifiersKeys() map[KeyName]struct{} {
	set := make(map[KeyName]struct{}, len(AllModifierNames)*2)
	for _, m := range AllModifierNames {
		set[m] = struct{}{}
		for _, extra := range k.ExtraKeys(m) {
			set[extra] = struct{}{}
		}
	}
	return set
}
