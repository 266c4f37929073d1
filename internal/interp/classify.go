package interp

import (
	"fmt"

	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/state"
)

const maxRecursion = 3

// classifyLoop implements the classifier in spec.md §4.E, rules C1-C10,
// picking the first matching case. State.PressedKeys already reflects this
// event (step 2 of HandleEvent); the caller holds the lock for the whole
// call.
func (ip *Interpreter) classifyLoop(name keymap.KeyName, code keymap.XKeyCode, isPressed bool, depth int) error {
	if depth > maxRecursion {
		return fmt.Errorf("interp: classifier recursion exceeded %d on key %s", maxRecursion, name)
	}

	pressed := ip.st.PressedKeys
	otherPressed := pressed.Without(name)
	allMods := state.KeySet(ip.km.AllModifiersKeys())

	onAlt := ip.cfg.AlternativeModeEnabled && ip.st.Alternative
	var altMap keymap.AlternativeMapping
	var hasAlt bool
	if onAlt {
		altMap, hasAlt = ip.km.Alternative(name)
	}
	onAlternativeKey := onAlt && hasAlt

	trigCode := code
	if onAlternativeKey {
		trigCode = altMap.Code
	}
	smartTrigger := func() error {
		if isPressed {
			return ip.eff.Press(trigCode)
		}
		return ip.eff.Release(trigCode)
	}
	asTrigger := func(overrideCode keymap.XKeyCode) error {
		if isPressed {
			return ip.eff.Press(overrideCode)
		}
		return ip.eff.Release(overrideCode)
	}

	// C1: Enter-with-mods sequence in progress.
	if ip.st.Combo.EnterPressedWithMods != nil && name != keymap.EnterKey {
		armed := ip.st.Combo.EnterPressedWithMods
		enterCode, _ := ip.km.KeyCode(keymap.EnterKey)

		if !isPressed && armed.Contains(name) {
			if err := ip.eff.PressRelease(enterCode); err != nil {
				return err
			}
			ip.st.Combo.EnterPressedWithMods = nil
			ip.st.PressedKeys.Remove(keymap.EnterKey)
			return smartTrigger()
		}
		if isPressed && allMods.Contains(name) {
			next := armed.Clone()
			next.Add(name)
			ip.st.Combo.EnterPressedWithMods = next
			return smartTrigger()
		}
		ip.st.Combo.EnterPressedWithMods = nil
		return ip.classifyLoop(name, code, isPressed, depth+1)
	}

	// C2: both Alts pressed alone, toggles Alternative mode. This fires on
	// the second Alt's own press event, before its press would otherwise
	// reach X (C2 precedes C10): only the Alt already held at X (the other
	// one) gets a release, so every release stays paired with a press
	// (spec.md §8 invariant 1).
	if ip.cfg.AlternativeModeEnabled &&
		(name == keymap.AltLeftKey || name == keymap.AltRightKey) &&
		pressed.EqualTo(keymap.AltLeftKey, keymap.AltRightKey) {
		otherAlt := keymap.AltRightKey
		if name == keymap.AltRightKey {
			otherAlt = keymap.AltLeftKey
		}
		otherCode, _ := ip.km.KeyCode(otherAlt)
		if err := ip.eff.Release(otherCode); err != nil {
			return err
		}
		ip.st.PressedKeys.Remove(keymap.AltLeftKey)
		ip.st.PressedKeys.Remove(keymap.AltRightKey)
		ip.coord.RequestAlternativeToggle(!ip.st.Alternative, false)
		return nil
	}

	// C3: FN key itself.
	if name == keymap.FNKey {
		if isPressed {
			return nil
		}
		if ip.st.Combo.AppleMediaPressed {
			ip.abstractRelease(ip.km.IsMedia, ip.km.KeyCode)
			ip.st.Combo.AppleMediaPressed = false
			return nil
		}
		insertCode, _ := ip.km.KeyCode(keymap.InsertKey)
		ip.log.Debug("interp: FN acts as Insert")
		return ip.eff.PressRelease(insertCode)
	}

	// C4: Apple media overlay, FN held down over a media key.
	if pressed.Contains(keymap.FNKey) && ip.km.IsMedia(name) {
		ip.st.Combo.AppleMediaPressed = true
		return smartTrigger()
	}

	// C5: both-controls chord toggles Caps Lock.
	ctrlLeftCode, _ := ip.km.KeyCode(keymap.ControlLeftKey)
	ctrlRightCode, _ := ip.km.KeyCode(keymap.ControlRightKey)
	bothCtrl := pressed.EqualTo(keymap.ControlLeftKey, keymap.ControlRightKey)
	bothAC := ip.cfg.AdditionalControls && pressed.EqualTo(keymap.CapsLockKey, keymap.EnterKey)
	if bothCtrl || bothAC {
		if bothCtrl {
			// Like C2, this fires on the second Control's own press event,
			// before its press would otherwise reach X: only the Control
			// already held (the other one) gets a release.
			other := keymap.ControlRightKey
			if name == keymap.ControlRightKey {
				other = keymap.ControlLeftKey
			}
			otherCode, _ := ip.km.KeyCode(other)
			if err := ip.eff.Release(otherCode); err != nil {
				return err
			}
			ip.st.PressedKeys.Remove(keymap.ControlLeftKey)
			ip.st.PressedKeys.Remove(keymap.ControlRightKey)
		} else {
			// The second of CapsLock/Enter going down cannot itself upgrade
			// a control: this branch fires before C8 would. So at most one
			// of the two combo flags can be set here, from an upgrade of
			// the first control by a key that was pressed and released
			// earlier in this same hold - release each real Control code
			// only if its flag says it is genuinely held at X, mirroring
			// the bothCtrl branch above.
			if ip.st.Combo.IsCapsLockUsedWithCombos {
				if err := ip.eff.Release(ctrlLeftCode); err != nil {
					return err
				}
				ip.st.Combo.IsCapsLockUsedWithCombos = false
			}
			if ip.st.Combo.IsEnterUsedWithCombos {
				if err := ip.eff.Release(ctrlRightCode); err != nil {
					return err
				}
				ip.st.Combo.IsEnterUsedWithCombos = false
			}
			// Open question (b): when neither flag was set, CapsLock and
			// Enter were never pressed at X under their own codes either,
			// so no release is emitted for them at all in that case.
			ip.st.PressedKeys.Remove(keymap.CapsLockKey)
			ip.st.PressedKeys.Remove(keymap.EnterKey)
		}
		ip.coord.RequestCapsLockToggle(!ip.st.Leds.CapsLockLed, false)
		return nil
	}

	// C6: Enter pressed together with modifiers only.
	c6 := ip.cfg.AdditionalControls && name == keymap.EnterKey &&
		((isPressed && !otherPressed.IsEmpty() && otherPressed.SubsetOf(allMods)) ||
			(!isPressed && ip.st.Combo.EnterPressedWithMods != nil))
	if c6 {
		if isPressed {
			ip.st.Combo.EnterPressedWithMods = otherPressed.Clone()
			return nil
		}
		ip.st.Combo.EnterPressedWithMods = nil
		return ip.eff.PressRelease(code)
	}

	// C7: Caps Lock or Enter pressed alone as an additional control.
	if ip.cfg.AdditionalControls &&
		(name == keymap.CapsLockKey || name == keymap.EnterKey) &&
		!(name == keymap.EnterKey && ip.st.Combo.EnterPressedWithMods != nil) {
		slot := ip.acSlotFor(name)
		if isPressed {
			ip.setPressedBefore(name, otherPressed.Clone())
			return nil
		}
		if *slot.flag {
			ctrlCode, _ := ip.km.KeyCode(slot.controlKey)
			*slot.flag = false
			return ip.eff.Release(ctrlCode)
		}
		if name == keymap.EnterKey {
			return ip.eff.PressRelease(code)
		}
		// code already resolved to the real hardware code when RealCapsLock
		// is set (codeFor), or to the Escape remap otherwise; as_name only
		// names the target for logging.
		ip.log.Debug("interp: caps lock release", "as", ip.km.AsName(name))
		if err := ip.eff.PressRelease(code); err != nil {
			return err
		}
		if ip.cfg.ResetByEscapeOnCapsLock {
			return ip.resetAll()
		}
		return nil
	}

	// C8: some other key combined with an already-held additional control.
	if ip.cfg.AdditionalControls &&
		(pressed.Contains(keymap.CapsLockKey) || pressed.Contains(keymap.EnterKey)) {
		held := keymap.CapsLockKey
		if !pressed.Contains(keymap.CapsLockKey) && pressed.Contains(keymap.EnterKey) {
			held = keymap.EnterKey
		}
		slot := ip.acSlotFor(held)

		if !isPressed && slot.pressedBefore.Contains(name) {
			ip.setPressedBefore(held, slot.pressedBefore.Without(name))
			return smartTrigger()
		}
		if *slot.flag {
			return smartTrigger()
		}
		ctrlCode, _ := ip.km.KeyCode(slot.controlKey)
		if err := ip.eff.Press(ctrlCode); err != nil {
			return err
		}
		*slot.flag = true
		return smartTrigger()
	}

	// C9: Caps Lock remapped to Escape, additional controls disabled.
	if name == keymap.CapsLockKey && !ip.cfg.RealCapsLock {
		if err := asTrigger(code); err != nil {
			return err
		}
		if !isPressed && ip.cfg.ResetByEscapeOnCapsLock {
			return ip.resetAll()
		}
		return nil
	}

	// C10: default.
	return smartTrigger()
}
