package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultRestartInterval = 200 * time.Millisecond
	// maxBackoffFactor caps the restart delay at 32 restart intervals.
	maxBackoffFactor = 32
)

var _ contract.ISupervisor = (*Supervisor)(nil)

// Supervisor keeps the relay's long running workers (acceptors, status
// reporter, health service) alive until its context ends.
// A worker returning nil is done for good. A panic or an error restarts it
// after a delay that doubles with each consecutive failure; a run that lasted
// longer than the maximum delay resets the count.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = DefaultRestartInterval
	}
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartInterval: restartInterval}
}

// Run starts every added worker and blocks until all of them returned.
// Stop cancels the workers without touching the parent context.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs one worker under supervision in its own goroutine.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		failures := 0
		for ctx.Err() == nil {
			started := time.Now()
			err := runGuarded(ctx, worker)

			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				break
			}

			if time.Since(started) > s.maxDelay() {
				failures = 0
			}
			failures++
			delay := s.backoff(failures)
			s.log.Warn("Worker crashed, restarting",
				"name", name,
				"error", err,
				"restarts", failures,
				"retry_in", delay)

			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
		s.log.Info("Worker stopped", "name", name)
	}()
}

// Stop cancels every worker. Run returns once they all have.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}

// backoff is the delay before the given consecutive restart:
// interval, 2*interval, 4*interval... up to maxDelay.
func (s *Supervisor) backoff(failures int) time.Duration {
	delay := s.restartInterval
	for i := 1; i < failures && delay < s.maxDelay(); i++ {
		delay *= 2
	}
	return min(delay, s.maxDelay())
}

func (s *Supervisor) maxDelay() time.Duration {
	return s.restartInterval * maxBackoffFactor
}

// runGuarded turns a worker panic into errors.ErrWorkerPanic.
func runGuarded(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}
