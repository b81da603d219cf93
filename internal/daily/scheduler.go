package daily

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RolloverBuffer is added to the midnight delay so the callback observes the new date.
const RolloverBuffer = 500 * time.Millisecond

// Scheduler fires a callback with the new day index at every reference-zone
// midnight. The timer is one-shot and rearmed after each firing; Stop cancels
// the pending one.
type Scheduler struct {
	sel        *Selector
	entryCount func() int
	onChange   func(index int)
	delay    func() time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

type SchedulerOption func(*Scheduler)

// WithDelay overrides how long the scheduler waits before each firing.
func WithDelay(fn func() time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.delay = fn }
}

func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler reads entryCount at every firing so content reloads change the
// modulus. onChange runs on the scheduler goroutine and must not block: Stop
// waits for it to return.
func NewScheduler(sel *Selector, entryCount func() int, onChange func(index int), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sel:        sel,
		entryCount: entryCount,
		onChange:   onChange,
		logger:     zap.NewNop(),
	}
	s.delay = func() time.Duration { return sel.UntilNextMidnight() + RolloverBuffer }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the timer. It is a no-op when already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.run(ctx, s.done)
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		wait := s.delay()
		if wait < 0 {
			wait = 0
		}
		s.logger.Debug("rollover armed", zap.Duration("in", wait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		n := s.entryCount()
		if n <= 0 {
			s.logger.Warn("day rolled over with no content", zap.String("today", s.sel.Today()))
			continue
		}
		index := s.sel.Index(n)
		s.logger.Info("day rolled over", zap.String("today", s.sel.Today()), zap.Int("index", index))
		if s.onChange != nil {
			s.onChange(index)
		}
	}
}

// Stop cancels the pending timer and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}
