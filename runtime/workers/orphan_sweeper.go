package workers

import (
	"context"
	"log/slog"
	"pair-lab/infrastructure/collab"
	"pair-lab/infrastructure/storage"
	"time"
)

const sweepBatchSize = 50

// OrphanSweeper periodically retries the teardown of provider resources that
// outlived their session. One attempt per entry and sweep; successful entries
// leave the ledger.
type OrphanSweeper struct {
	log             *slog.Logger
	orphans         storage.IOrphanRepository
	provisioner     collab.IProvisioner
	interval        time.Duration
	providerTimeout time.Duration
}

func NewOrphanSweeper(
	log *slog.Logger,
	orphans storage.IOrphanRepository,
	provisioner collab.IProvisioner,
	interval, providerTimeout time.Duration,
) *OrphanSweeper {
	return &OrphanSweeper{
		log:             log,
		orphans:         orphans,
		provisioner:     provisioner,
		interval:        interval,
		providerTimeout: providerTimeout,
	}
}

func (w *OrphanSweeper) Run(ctx context.Context) error {
	w.log.Info("Starting orphan sweeper", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				return err
			}
		}
	}
}

// Sweep makes one pass over the ledger and returns the first storage error.
func (w *OrphanSweeper) Sweep(ctx context.Context) error {
	orphans, err := w.orphans.List(ctx, sweepBatchSize)
	if err != nil {
		return err
	}
	for _, orphan := range orphans {
		if ctx.Err() != nil {
			return nil
		}
		if err := collab.Teardown(ctx, w.provisioner, orphan.Handle, w.providerTimeout); err != nil {
			w.log.Warn("Orphan teardown failed", "handle", orphan.Handle,
				"session_id", orphan.SessionID, "attempts", orphan.Attempts+1, "error", err)
			if err := w.orphans.Record(ctx, storage.Orphan{
				Handle:    orphan.Handle,
				SessionID: orphan.SessionID,
				Attempts:  1,
				LastError: err.Error(),
			}); err != nil {
				return err
			}
			continue
		}
		if err := w.orphans.Remove(ctx, orphan.Handle); err != nil {
			return err
		}
		w.log.Info("Orphaned resources reclaimed", "handle", orphan.Handle, "session_id", orphan.SessionID)
	}
	return nil
}
