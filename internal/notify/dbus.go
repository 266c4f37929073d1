package notify

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// DBusConfig names the destination, path, and interface the daemon emits
// indicator signals to, and the path/interface it listens for
// request_flush_all on (spec.md §6). Dest may be empty for a broadcast
// signal (no destination set on the message).
type DBusConfig struct {
	Dest string
	Path string
	Iface string

	ListenPath  string
	ListenIface string
}

// DBusBus is the production Bus, grounded on the pack's own godbus usage
// (AshBuk-speak-to-ai's notifier, and the property/signal style shown in
// other_examples' canonical-snapd xkb.go).
type DBusBus struct {
	conn *dbus.Conn
	cfg  DBusConfig
	log  *slog.Logger

	stopListen func()
}

// NewDBusBus connects to the session bus and starts listening for
// request_flush_all signals, re-emitting all indicators via provider on
// receipt (spec.md §6).
func NewDBusBus(cfg DBusConfig, provider IndicatorsProvider, log *slog.Logger) (*DBusBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}

	b := &DBusBus{conn: conn, cfg: cfg, log: log}

	stop, err := b.listenFlushAll(provider)
	if err != nil {
		conn.Close()
		return nil, err
	}
	b.stopListen = stop

	return b, nil
}

func (b *DBusBus) listenFlushAll(provider IndicatorsProvider) (func(), error) {
	rule := dbus.WithMatchInterface(b.cfg.ListenIface)
	pathRule := dbus.WithMatchObjectPath(dbus.ObjectPath(b.cfg.ListenPath))
	memberRule := dbus.WithMatchMember("request_flush_all")

	if err := b.conn.AddMatchSignal(rule, pathRule, memberRule); err != nil {
		return nil, fmt.Errorf("subscribing to request_flush_all: %w", err)
	}

	ch := make(chan *dbus.Signal, 8)
	b.conn.Signal(ch)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				if sig.Name != b.cfg.ListenIface+".request_flush_all" {
					continue
				}
				if len(sig.Body) != 0 {
					continue
				}
				b.flushAll(provider)
			}
		}
	}()

	return func() { close(done) }, nil
}

func (b *DBusBus) flushAll(provider IndicatorsProvider) {
	numlock, capslock, alternative := provider.CurrentIndicators()
	if err := b.EmitNumlock(numlock); err != nil {
		b.log.Warn("flush-all: emitting numlock failed", "error", err)
	}
	if err := b.EmitCapslock(capslock); err != nil {
		b.log.Warn("flush-all: emitting capslock failed", "error", err)
	}
	if err := b.EmitAlternative(alternative); err != nil {
		b.log.Warn("flush-all: emitting alternative failed", "error", err)
	}
}

func (b *DBusBus) emit(member string, on bool) error {
	if b.cfg.Dest == "" {
		if err := b.conn.Emit(dbus.ObjectPath(b.cfg.Path), b.cfg.Iface+"."+member, on); err != nil {
			return fmt.Errorf("emitting %s: %w", member, err)
		}
		return nil
	}

	// A non-empty destination makes this a unicast signal: build the
	// message by hand so we can set the Destination header, which
	// (*dbus.Conn).Emit does not expose.
	msg := &dbus.Message{
		Type:  dbus.TypeSignal,
		Flags: dbus.FlagNoReplyExpected,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldPath:        dbus.MakeVariant(dbus.ObjectPath(b.cfg.Path)),
			dbus.FieldInterface:   dbus.MakeVariant(b.cfg.Iface),
			dbus.FieldMember:      dbus.MakeVariant(member),
			dbus.FieldDestination: dbus.MakeVariant(b.cfg.Dest),
		},
		Body: []interface{}{on},
	}
	if call := b.conn.Send(msg, nil); call != nil && call.Err != nil {
		return fmt.Errorf("emitting %s to %s: %w", member, b.cfg.Dest, call.Err)
	}
	return nil
}

// EmitNumlock implements Bus.
func (b *DBusBus) EmitNumlock(on bool) error { return b.emit("numlock", on) }

// EmitCapslock implements Bus.
func (b *DBusBus) EmitCapslock(on bool) error { return b.emit("capslock", on) }

// EmitAlternative implements Bus.
func (b *DBusBus) EmitAlternative(on bool) error { return b.emit("alternative", on) }

// Close implements Bus.
func (b *DBusBus) Close() error {
	if b.stopListen != nil {
		b.stopListen()
	}
	return b.conn.Close()
}
