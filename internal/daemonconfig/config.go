// Package daemonconfig turns parsed CLI flags into the policy structs the
// rest of the daemon consumes. Unlike the teacher's internal/config, there
// is no persistent file: spec.md's Non-goals exclude a config format, so
// this package is flag-struct-only (SPEC_FULL.md §9).
package daemonconfig

import (
	"github.com/caps11d/caps11d/internal/devscan"
	"github.com/caps11d/caps11d/internal/interp"
	"github.com/caps11d/caps11d/internal/notify"
)

// Config is the fully resolved daemon configuration, derived from Flags.
type Config struct {
	Interp  interp.Config
	DBus    notify.DBusConfig
	Verbose bool

	ResetByWindowFocusEvent bool
	XmobarPipe              string
	DevicePaths             []string
	DeviceFDPath            string
	DisableXinputDeviceName string
	DisableXinputDeviceID   string
}

// FromFlags resolves the raw CLI flags into a Config, applying spec.md §6's
// cross-flag rule that --real-capslock implicitly disables
// resetByEscapeOnCapsLock.
func FromFlags(f devscan.Flags) Config {
	ic := interp.DefaultConfig()
	ic.AlternativeModeEnabled = !f.NoAlternativeMode
	ic.AdditionalControls = !f.NoAdditionalControls
	ic.RealCapsLock = f.RealCapsLock
	ic.ResetByEscapeOnCapsLock = !f.DisableResetByEscapeOnCapsLock && !f.RealCapsLock

	return Config{
		Interp: ic,
		DBus: notify.DBusConfig{
			Dest:       f.DBusDest,
			Path:       f.DBusPath,
			Iface:      f.DBusIface,
			ListenPath: f.DBusListenPath,
			ListenIface: f.DBusListenIface,
		},
		Verbose:                 f.Verbose,
		ResetByWindowFocusEvent: !f.DisableResetByWindowFocusEvent,
		XmobarPipe:              f.XmobarPipe,
		DevicePaths:             f.DevicePaths,
		DeviceFDPath:            f.DeviceFDPath,
		DisableXinputDeviceName: f.DisableXinputDeviceName,
		DisableXinputDeviceID:   f.DisableXinputDeviceID,
	}
}
