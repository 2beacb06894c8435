package scheduler

import (
	"context"
	"math/rand"
	"time"

	"presage/internal/logger"
)

// IntervalScheduler runs a task on a fixed period. The timer for the next
// run is armed only after the task returns, so a slow task (an outstanding
// oracle call, say) is never invoked concurrently with itself.
type IntervalScheduler struct {
	Name           string
	Interval       time.Duration
	InitialDelay   time.Duration
	Jitter         time.Duration // random extra delay before the first run
	RunImmediately bool

	ctx    context.Context
	nowFn  func() time.Time
	randFn func(max time.Duration) time.Duration
}

func NewIntervalScheduler(ctx context.Context, name string, interval time.Duration) *IntervalScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &IntervalScheduler{
		Name:     name,
		Interval: interval,
		ctx:      ctx,
		nowFn:    time.Now,
		randFn:   randomDelay,
	}
}

func randomDelay(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

// Start blocks until the context is cancelled. Callers run it in its own
// goroutine.
func (s *IntervalScheduler) Start(task func(context.Context)) {
	if s == nil {
		return
	}
	if task == nil {
		logger.Warnf("IntervalScheduler[%s]: task is nil, exit", s.Name)
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("IntervalScheduler[%s]: invalid interval=%s, exit", s.Name, s.Interval)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}
	if s.randFn == nil {
		s.randFn = randomDelay
	}

	delay := s.InitialDelay + s.randFn(s.Jitter)
	logger.Debugf("IntervalScheduler[%s]: started interval=%s initial_delay=%s", s.Name, s.Interval, delay)

	if delay > 0 {
		if !s.sleep(delay) {
			return
		}
	}
	if s.RunImmediately {
		task(s.ctx)
	}
	for {
		if !s.sleep(s.Interval) {
			logger.Debugf("IntervalScheduler[%s]: ctx done, exit", s.Name)
			return
		}
		task(s.ctx)
	}
}

func (s *IntervalScheduler) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
