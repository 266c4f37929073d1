// Package notify is the IPC/notification layer spec.md §1 calls out as an
// abstract collaborator: it emits indicator state to an external status
// bar over D-Bus, and listens for that status bar's flush request.
package notify

// Bus is the IPC surface the effector emits through (spec.md §4.C, §6).
// Emit failures are logged by the caller and never block the event
// pipeline (spec.md §7, error kind 4).
type Bus interface {
	EmitNumlock(on bool) error
	EmitCapslock(on bool) error
	EmitAlternative(on bool) error
	Close() error
}

// IndicatorsProvider supplies the current value of all three indicators,
// used to answer a request_flush_all signal (spec.md §6).
type IndicatorsProvider interface {
	CurrentIndicators() (numlock, capslock, alternative bool)
}
