// Package export produces periodic JSONL snapshots of a service's data and
// ships them to a destination. Snapshots are the reconciliation artifact for
// events that were dropped while the bus or a consumer was down.
package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Snapshotter writes a full JSONL snapshot of the service's data.
type Snapshotter interface {
	WriteSnapshot(ctx context.Context, w io.Writer) error
}

// Destination is the interface for a snapshot target.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic snapshots to one or more destinations.
type Scheduler struct {
	snapshotter  Snapshotter
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports snapshots to the given
// destinations at the specified interval.
func NewScheduler(s Snapshotter, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		snapshotter:  s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic export. It runs an initial snapshot immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current snapshot (if any) to
// finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := s.snapshotter.WriteSnapshot(ctx, &buf); err != nil {
		s.logger.Error("snapshot export failed", "err", err)
		return
	}
	data := buf.Bytes()

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("snapshot destination write failed", "destination", i, "err", err)
		}
	}

	s.logger.Info("snapshot export completed", "destinations", len(s.destinations), "bytes", len(data))
}
