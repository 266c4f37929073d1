package xdriver

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xkb"
	"github.com/jezek/xgb/xproto"
)

// xkbGetState wraps the XKB extension's GetState request, calling xkb.Init
// on the connection before every request.
func xkbGetState(conn *xgb.Conn) (*xkb.GetStateReply, error) {
	if err := xkb.Init(conn); err != nil {
		return nil, fmt.Errorf("initializing XKB extension: %w", err)
	}
	return xkb.GetState(conn, xkb.IDUseCoreKbd).Reply()
}

// xkbSetGroup locks the XKB group via LatchLockState, the same request
// `setxkbmap`'s group switch ultimately issues.
func xkbSetGroup(conn *xgb.Conn, group byte) error {
	if err := xkb.Init(conn); err != nil {
		return fmt.Errorf("initializing XKB extension: %w", err)
	}
	return xkb.LatchLockStateChecked(
		conn,
		xkb.IDUseCoreKbd,
		0,     // affectModLocks
		0,     // modLocks
		true,  // lockGroup
		group, // groupLock
		false, // affectModLatches
		0,     // latchGroup
		0,     // groupLatch
	).Check()
}

// internAtom resolves an atom name to its X atom id.
func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
