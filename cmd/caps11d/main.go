// caps11d remaps Caps Lock and Enter into additional modifiers under X11,
// with an optional Alternative layer and status-bar notifications over
// D-Bus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caps11d/caps11d/internal/daemon"
	"github.com/caps11d/caps11d/internal/daemonconfig"
	"github.com/caps11d/caps11d/internal/devscan"
	"github.com/caps11d/caps11d/internal/logging"
)

func main() {
	flags, err := devscan.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(flags.Verbose)
	cfg := daemonconfig.FromFlags(flags)

	log.Info("caps11d starting",
		"alternativeMode", cfg.Interp.AlternativeModeEnabled,
		"additionalControls", cfg.Interp.AdditionalControls,
		"realCapsLock", cfg.Interp.RealCapsLock,
	)

	d, err := daemon.New(cfg, log)
	if err != nil {
		log.Error("failed to start daemon", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down...")
		cancel()
	}()

	if err := d.Run(ctx); err != nil {
		log.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("caps11d stopped")
}
