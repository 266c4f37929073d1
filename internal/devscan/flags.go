// Package devscan handles CLI flag parsing and evdev device discovery
// (spec.md §6, "Device discovery and option parsing").
package devscan

import (
	"flag"
	"fmt"
)

// Flags mirrors spec.md §6's CLI flag list verbatim, plus the D-Bus
// destination/path/interface flags SPEC_FULL.md §6.4 adds.
type Flags struct {
	Verbose bool

	RealCapsLock                     bool
	NoAlternativeMode                bool
	NoAdditionalControls             bool
	DisableResetByEscapeOnCapsLock   bool
	DisableResetByWindowFocusEvent   bool
	DisableXinputDeviceName          string
	DisableXinputDeviceID            string
	DeviceFDPath                     string
	XmobarPipe                       string

	DBusDest       string
	DBusPath       string
	DBusIface      string
	DBusListenPath string
	DBusListenIface string

	// DevicePaths are positional arguments, appended to the device-path
	// list (spec.md §6).
	DevicePaths []string
}

// ParseFlags parses args (normally os.Args[1:]) into Flags.
func ParseFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("caps11d", flag.ContinueOnError)

	var f Flags
	fs.BoolVar(&f.Verbose, "verbose", false, "log at debug level")
	fs.BoolVar(&f.RealCapsLock, "real-capslock", false, "keep Caps Lock as the real hardware key (disables reset-by-escape)")
	fs.BoolVar(&f.NoAlternativeMode, "no-alternative-mode", false, "disable the Alternative remap layer")
	fs.BoolVar(&f.NoAdditionalControls, "no-additional-controls", false, "disable Caps Lock / Enter acting as additional controls")
	fs.BoolVar(&f.DisableResetByEscapeOnCapsLock, "disable-reset-by-escape-on-capslock", false, "do not reset all state when Caps Lock fires as Escape")
	fs.BoolVar(&f.DisableResetByWindowFocusEvent, "disable-reset-by-window-focus-event", false, "do not reset all state on X window focus change")
	fs.StringVar(&f.DisableXinputDeviceName, "disable-xinput-device-name", "", "skip the evdev device whose name matches NAME")
	fs.StringVar(&f.DisableXinputDeviceID, "disable-xinput-device-id", "", "skip the evdev device whose vendor:product id matches ID")
	fs.StringVar(&f.DeviceFDPath, "device-fd-path", "", "read events from an already-open device fd path instead of scanning")
	fs.StringVar(&f.XmobarPipe, "xmobar-pipe", "", "also write indicator text to this named pipe")

	fs.StringVar(&f.DBusDest, "dbus-dest", "", "D-Bus destination name for outgoing signals (empty: broadcast)")
	fs.StringVar(&f.DBusPath, "dbus-path", "/org/caps11d/Notifier", "D-Bus object path for outgoing signals")
	fs.StringVar(&f.DBusIface, "dbus-iface", "org.caps11d.Notifier", "D-Bus interface for outgoing signals")
	fs.StringVar(&f.DBusListenPath, "dbus-listen-path", "/org/caps11d/Notifier", "D-Bus object path to listen for request_flush_all on")
	fs.StringVar(&f.DBusListenIface, "dbus-listen-iface", "org.caps11d.Notifier", "D-Bus interface to listen for request_flush_all on")

	if err := fs.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("parsing flags: %w", err)
	}
	f.DevicePaths = fs.Args()
	return f, nil
}
