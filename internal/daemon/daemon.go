// Package daemon wires the evdev reader, X focus watcher, and D-Bus
// listener goroutines into the single-lock event pipeline described in
// spec.md §5, mirroring the orchestration cmd/asahi-map/main.go does
// inline in the teacher.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caps11d/caps11d/internal/daemonconfig"
	"github.com/caps11d/caps11d/internal/devscan"
	"github.com/caps11d/caps11d/internal/effector"
	"github.com/caps11d/caps11d/internal/interp"
	"github.com/caps11d/caps11d/internal/keymap"
	"github.com/caps11d/caps11d/internal/mode"
	"github.com/caps11d/caps11d/internal/notify"
	"github.com/caps11d/caps11d/internal/state"
	"github.com/caps11d/caps11d/internal/xdriver"
)

// Daemon owns every long-lived collaborator and goroutine (spec.md §5's
// three threads: evdev reader(s), X focus watcher, D-Bus listener).
type Daemon struct {
	cfg daemonconfig.Config
	log *slog.Logger

	km      *keymap.Keymap
	st      *state.State
	driver  xdriver.Driver
	bus     notify.Bus
	xmobar  *notify.XmobarWriter
	eff     *effector.Effector
	coord   *mode.Coordinator
	ip      *interp.Interpreter
	devices *devscan.Manager

	stopFocus func()
}

// New builds a Daemon, opening the X connection, the D-Bus session, and
// (if configured) the xmobar pipe.
func New(cfg daemonconfig.Config, log *slog.Logger) (*Daemon, error) {
	driver, err := xdriver.NewImplDriver(log)
	if err != nil {
		return nil, fmt.Errorf("opening X11 driver: %w", err)
	}

	d := &Daemon{cfg: cfg, log: log, driver: driver}

	d.km = keymap.New()
	d.st = state.New()

	if cfg.XmobarPipe != "" {
		xm, err := notify.NewXmobarWriter(cfg.XmobarPipe)
		if err != nil {
			driver.Close()
			return nil, err
		}
		d.xmobar = xm
	}

	bus, err := notify.NewDBusBus(cfg.DBus, d, log)
	if err != nil {
		driver.Close()
		if d.xmobar != nil {
			d.xmobar.Close()
		}
		return nil, fmt.Errorf("opening D-Bus session: %w", err)
	}
	d.bus = bus

	d.eff = effector.New(driver, d.bus, d.xmobar, log)
	d.coord = mode.New(d.st, d.eff, driver, d.km, log)
	d.ip = interp.New(d.km, d.st, d.eff, d.coord, cfg.Interp, log)
	d.devices = devscan.NewManager(log)

	if capsLock, _, err := driver.GetLEDs(); err != nil {
		log.Warn("daemon: could not sample initial LED state", "error", err)
	} else {
		d.st.Leds.CapsLockLed = capsLock
	}

	return d, nil
}

// CurrentIndicators implements notify.IndicatorsProvider for the
// request_flush_all handler. Num Lock is read live from X; Caps Lock and
// Alternative mirror the daemon's own State.
func (d *Daemon) CurrentIndicators() (numlock, capslock, alternative bool) {
	d.st.Lock()
	defer d.st.Unlock()
	_, numlock, err := d.driver.GetLEDs()
	if err != nil {
		d.log.Warn("daemon: reading LEDs for flush-all failed", "error", err)
	}
	return numlock, d.st.Leds.CapsLockLed, d.st.Alternative
}

// Run discovers and grabs keyboards, starts the focus watcher and event
// pipeline, and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	flags := devscan.Flags{
		DevicePaths:             d.cfg.DevicePaths,
		DeviceFDPath:            d.cfg.DeviceFDPath,
		DisableXinputDeviceName: d.cfg.DisableXinputDeviceName,
		DisableXinputDeviceID:   d.cfg.DisableXinputDeviceID,
	}
	keyboards, err := d.devices.FindKeyboards(flags)
	if err != nil {
		return fmt.Errorf("discovering keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboards found")
	}
	for _, kb := range keyboards {
		if err := d.devices.Grab(kb); err != nil {
			d.log.Error("daemon: failed to grab keyboard", "name", kb.Name(), "error", err)
		}
	}

	if d.cfg.ResetByWindowFocusEvent {
		stop, err := d.driver.WatchFocus(d.onFocusChange)
		if err != nil {
			d.log.Warn("daemon: could not start focus watcher", "error", err)
		} else {
			d.stopFocus = stop
		}
	}

	events := make(chan devscan.Event, 256)
	var wg sync.WaitGroup
	for _, kb := range keyboards {
		wg.Add(1)
		go func(dev *devscan.Device) {
			defer wg.Done()
			if err := devscan.ReadEvents(ctx, dev, events); err != nil && ctx.Err() == nil {
				d.log.Error("daemon: error reading events", "device", dev.Name(), "error", err)
			}
		}(kb)
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return nil
		case ev, ok := <-events:
			if !ok {
				d.shutdown()
				return nil
			}
			name, known := d.km.AliasOf(ev.Code)
			if !known {
				d.log.Debug("daemon: unknown evdev code", "code", ev.Code)
				continue
			}
			if err := d.ip.HandleEvent(name, ev.IsPressed); err != nil {
				return fmt.Errorf("handling event for %s: %w", name, err)
			}
		}
	}
}

// onFocusChange runs resetAll-equivalent cleanup on window focus change,
// by funneling through the same locked path every key event uses.
func (d *Daemon) onFocusChange() {
	if err := d.ip.ResetOnFocusChange(); err != nil {
		d.log.Warn("daemon: reset on focus change failed", "error", err)
	}
}

func (d *Daemon) shutdown() {
	if d.stopFocus != nil {
		d.stopFocus()
	}
	d.devices.Close()
	if err := d.driver.Close(); err != nil {
		d.log.Warn("daemon: closing X11 driver failed", "error", err)
	}
	if err := d.bus.Close(); err != nil {
		d.log.Warn("daemon: closing D-Bus session failed", "error", err)
	}
	if d.xmobar != nil {
		if err := d.xmobar.Close(); err != nil {
			d.log.Warn("daemon: closing xmobar pipe failed", "error", err)
		}
	}
}
