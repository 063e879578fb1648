package workers

import (
	"context"
	"log/slog"
	"pair-lab/domain"
	"pair-lab/infrastructure/storage"
	"time"
)

type sessionCounter interface {
	CountByStatus(ctx context.Context, status domain.Status) (int, error)
}

// Snapshot is one reading of the session store.
type Snapshot struct {
	Active    int
	Completed int
	Orphans   int
	Uptime    time.Duration
}

// SessionReporter logs a store snapshot on every tick and once more on shutdown.
type SessionReporter struct {
	log       *slog.Logger
	sessions  sessionCounter
	orphans   storage.IOrphanRepository
	interval  time.Duration
	startTime time.Time
}

func NewSessionReporter(
	log *slog.Logger,
	sessions sessionCounter,
	orphans storage.IOrphanRepository,
	interval time.Duration,
) *SessionReporter {
	return &SessionReporter{
		log:       log,
		sessions:  sessions,
		orphans:   orphans,
		interval:  interval,
		startTime: time.Now(),
	}
}

// Run starts the reporting loop until context cancellation
func (w *SessionReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(context.WithoutCancel(ctx))
			w.log.Info("Reporter stopped")
			return ctx.Err()
		case <-ticker.C:
			w.report(ctx)
		}
	}
}

func (w *SessionReporter) report(ctx context.Context) {
	snapshot, err := w.Snapshot(ctx)
	if err != nil {
		w.log.Warn("Unable to read session snapshot", "error", err)
		return
	}
	w.log.Info("Session store snapshot",
		"uptime", snapshot.Uptime.Round(time.Second).String(),
		"active", snapshot.Active,
		"completed", snapshot.Completed,
		"orphans", snapshot.Orphans,
	)
}

// Snapshot reads the current counters.
func (w *SessionReporter) Snapshot(ctx context.Context) (Snapshot, error) {
	active, err := w.sessions.CountByStatus(ctx, domain.StatusActive)
	if err != nil {
		return Snapshot{}, err
	}
	completed, err := w.sessions.CountByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return Snapshot{}, err
	}
	orphans, err := w.orphans.List(ctx, 0)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Active:    active,
		Completed: completed,
		Orphans:   len(orphans),
		Uptime:    time.Since(w.startTime),
	}, nil
}
