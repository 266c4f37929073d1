package notify

import (
	"fmt"
	"os"
)

// XmobarWriter appends status lines to the FIFO or regular file named by
// --xmobar-pipe (spec.md §6). It is best-effort: callers log write errors
// and never block the event pipeline on them (spec.md §7, error kind 4).
type XmobarWriter struct {
	f *os.File
}

// NewXmobarWriter opens path for appending. The file is expected to
// already exist as a named pipe set up by the status bar; the daemon does
// not create one.
func NewXmobarWriter(path string) (*XmobarWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("opening xmobar pipe %s: %w", path, err)
	}
	return &XmobarWriter{f: f}, nil
}

// Write appends msg followed by a newline.
func (w *XmobarWriter) Write(msg string) error {
	_, err := fmt.Fprintln(w.f, msg)
	return err
}

// Close closes the underlying file.
func (w *XmobarWriter) Close() error {
	return w.f.Close()
}
