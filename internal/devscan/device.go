package devscan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"

	"github.com/caps11d/caps11d/internal/keymap"
)

// Device wraps one grabbed keyboard input device.
type Device struct {
	path   string
	device *evdev.InputDevice
	name   string
}

func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }

// Event is a decoded key event read off a Device (spec.md §6: only
// Depressed/Released records are forwarded; Repeated and others are
// dropped by ReadEvents below, before they ever reach this struct).
type Event struct {
	Code      keymap.EvdevCode
	IsPressed bool
	Device    *Device
}

// Manager discovers and grabs keyboard devices, mirroring the teacher's
// DeviceManager (internal/keyboard/device.go) generalized to emit decoded
// Events instead of raw evdev key codes.
type Manager struct {
	mu      sync.Mutex
	devices map[string]*Device
	log     *slog.Logger
}

func NewManager(log *slog.Logger) *Manager {
	return &Manager{devices: make(map[string]*Device), log: log}
}

// FindKeyboards discovers keyboard devices under /dev/input, honoring
// --disable-xinput-device-name/--disable-xinput-device-id and an explicit
// --device-fd-path override (spec.md §6).
func (m *Manager) FindKeyboards(f Flags) ([]*Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := f.DevicePaths
	if f.DeviceFDPath != "" {
		paths = append(paths, f.DeviceFDPath)
	}
	if len(paths) == 0 {
		matches, err := filepath.Glob("/dev/input/event*")
		if err != nil {
			return nil, fmt.Errorf("globbing input devices: %w", err)
		}
		paths = matches
	}

	var keyboards []*Device
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			m.log.Debug("cannot open device", "path", path, "error", err)
			continue
		}

		name, err := dev.Name()
		if err != nil {
			dev.Close()
			continue
		}

		if f.DisableXinputDeviceName != "" && strings.EqualFold(name, f.DisableXinputDeviceName) {
			m.log.Debug("skipping disabled device by name", "name", name)
			dev.Close()
			continue
		}

		if f.DisableXinputDeviceID != "" {
			if id, err := dev.InputID(); err == nil {
				idStr := fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
				if strings.EqualFold(idStr, f.DisableXinputDeviceID) {
					m.log.Debug("skipping disabled device by id", "id", idStr)
					dev.Close()
					continue
				}
			}
		}

		if !isKeyboard(dev) {
			dev.Close()
			continue
		}

		device := &Device{path: path, device: dev, name: name}
		m.devices[path] = device
		keyboards = append(keyboards, device)
		m.log.Info("found keyboard", "name", name, "path", path)
	}

	return keyboards, nil
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t != evdev.EV_KEY {
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			if code >= 30 && code <= 52 { // KEY_A (30) .. KEY_DOT (52)
				return true
			}
		}
	}
	return false
}

// Grab takes exclusive control of dev so its events no longer reach other
// listeners (X, the console) directly; this daemon re-synthesizes them.
func (m *Manager) Grab(dev *Device) error {
	if err := dev.device.Grab(); err != nil {
		return fmt.Errorf("grabbing device %s: %w", dev.path, err)
	}
	m.log.Info("grabbed device", "name", dev.name)
	return nil
}

// Close releases every managed device.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dev := range m.devices {
		dev.device.Close()
	}
	m.devices = make(map[string]*Device)
}

// ReadEvents blocks reading key events from dev until ctx is canceled or
// the device goes away, forwarding each decoded Depressed/Released record
// to events (spec.md §6: Repeated and non-key records are dropped here).
func ReadEvents(ctx context.Context, dev *Device, events chan<- Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := dev.device.ReadOne()
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("device disconnected: %s", dev.path)
			}
			return fmt.Errorf("reading event: %w", err)
		}

		if ev.Type != evdev.EV_KEY {
			continue
		}
		switch ev.Value {
		case 0:
			events <- Event{Code: keymap.EvdevCode(ev.Code), IsPressed: false, Device: dev}
		case 1:
			events <- Event{Code: keymap.EvdevCode(ev.Code), IsPressed: true, Device: dev}
		default:
			// value 2 is autorepeat; spec.md §6 drops it.
		}
	}
}
