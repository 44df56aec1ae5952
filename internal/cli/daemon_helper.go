package cli

import (
	"context"

	"github.com/lumenhost/standbyd/internal/daemon"
	"github.com/lumenhost/standbyd/internal/domain"
)

// withDaemon constructs a Daemon, starts its engine loop just long
// enough to run fn, then closes it — saving a checkpoint on the way
// out. Used by the one-shot subcommands (scan, bucket, events) that
// don't need the debug HTTP server.
func withDaemon(fn func(d *daemon.Daemon) error) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Engine.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		d.Close()
	}()

	if err := d.Engine.OnBootPhase(domain.BootPhaseCompleted); err != nil {
		return err
	}
	return fn(d)
}
