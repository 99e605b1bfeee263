package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// OverdueMarker sweeps overdue installments into the LATE status
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// Scheduler periodically runs the overdue sweep in the background
type Scheduler struct {
	marker OverdueMarker
	logger *logrus.Logger
	stop   chan struct{}
	done   chan struct{}
}

// NewScheduler creates a new Scheduler
func NewScheduler(marker OverdueMarker, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		marker: marker,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the background sweep loop with the given interval. The first
// sweep runs immediately.
func (s *Scheduler) Start(interval time.Duration) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.run()

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the current sweep to finish
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.marker.MarkOverdue(ctx); err != nil {
		s.logger.Errorf("Overdue sweep failed: %v", err)
	}
}
