// Package session owns every mutable history buffer and the periodic
// tasks that drive the prediction loop. All other components operate on
// immutable snapshots or pure-function inputs.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"presage/internal/analysis/indicator"
	"presage/internal/logger"
	"presage/internal/market"
	"presage/internal/oracle"
	"presage/internal/pkg/circuit"
	"presage/internal/predict"
	"presage/internal/scheduler"
)

// priceDeltaLookback is how many samples back the heuristic's short-term
// price delta reaches (about 10s at the 2s refresh cadence).
const priceDeltaLookback = 5

// Config carries the orchestration periods and buffer bounds.
type Config struct {
	Symbol            string
	RefreshInterval   time.Duration // market data refresh period
	HistorySize       int           // price history bound
	HeuristicJitter   time.Duration // randomized initial stagger per horizon loop
	OracleEnabled     bool
	OracleInterval    time.Duration // oracle call period
	OracleWarmup      time.Duration // delay before the first oracle attempt
	OracleMinHistory  int           // price samples required before the first call
	OracleCooldown    time.Duration // suspension window after a rate limit
	OracleHistorySize int           // oracle prediction display history bound
	OutcomeWindow     int           // outcome history bound per tracker
}

func (c Config) withDefaults() Config {
	if c.Symbol == "" {
		c.Symbol = "BTCUSDT"
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 2 * time.Second
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 120
	}
	if c.HeuristicJitter <= 0 {
		c.HeuristicJitter = 3 * time.Second
	}
	if c.OracleInterval <= 0 {
		c.OracleInterval = 30 * time.Second
	}
	if c.OracleWarmup <= 0 {
		c.OracleWarmup = 5 * time.Second
	}
	if c.OracleMinHistory <= 0 {
		c.OracleMinHistory = 60
	}
	if c.OracleCooldown <= 0 {
		c.OracleCooldown = 60 * time.Second
	}
	if c.OracleHistorySize <= 0 {
		c.OracleHistorySize = 15
	}
	if c.OutcomeWindow <= 0 {
		c.OutcomeWindow = 60
	}
	return c
}

type Session struct {
	cfg       Config
	collector *market.Collector
	oracle    oracle.Oracle
	cooldown  *circuit.Cooldown
	nowFn     func() time.Time

	mu             sync.RWMutex
	closed         bool
	generation     int
	version        uint64
	prices         *market.TickHistory
	features       *market.Features
	prevFeatures   *market.Features
	heuristic      map[predict.Horizon]predict.Prediction
	oraclePreds    []predict.Prediction
	oracleHistory  []predict.Prediction
	oracleTracker  *predict.Tracker
	heurTracker    *predict.Tracker
	oracleInFlight bool
	oracleErr      string
}

func New(cfg Config, collector *market.Collector, orc oracle.Oracle) *Session {
	final := cfg.withDefaults()
	return &Session{
		cfg:           final,
		collector:     collector,
		oracle:        orc,
		cooldown:      circuit.NewCooldown("oracle", final.OracleCooldown),
		nowFn:         time.Now,
		prices:        market.NewTickHistory(final.HistorySize),
		heuristic:     make(map[predict.Horizon]predict.Prediction),
		oracleTracker: predict.NewTracker(final.OutcomeWindow),
		heurTracker:   predict.NewTracker(final.OutcomeWindow),
	}
}

// Run starts all periodic loops and blocks until the context is
// cancelled. External-source failure never terminates the session.
func (s *Session) Run(ctx context.Context) error {
	defer s.markClosed()

	g, ctx := errgroup.WithContext(ctx)

	refresh := scheduler.NewIntervalScheduler(ctx, "refresh", s.cfg.RefreshInterval)
	refresh.RunImmediately = true
	g.Go(func() error {
		refresh.Start(s.refreshTick)
		return ctx.Err()
	})

	for _, h := range predict.Horizons {
		sched := scheduler.NewIntervalScheduler(ctx, "heuristic-"+h.String(), h.Duration())
		sched.Jitter = s.cfg.HeuristicJitter
		task := s.heuristicTask(h)
		g.Go(func() error {
			sched.Start(task)
			return ctx.Err()
		})
	}

	if s.cfg.OracleEnabled && s.oracle != nil {
		sched := scheduler.NewIntervalScheduler(ctx, "oracle", s.cfg.OracleInterval)
		sched.InitialDelay = s.cfg.OracleWarmup
		g.Go(func() error {
			sched.Start(s.oracleTick)
			return ctx.Err()
		})
	} else {
		logger.Infof("session: oracle loop disabled")
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.generation++
	s.mu.Unlock()
}

// refreshTick fans out to the market sources and folds the results into
// the owned buffers.
func (s *Session) refreshTick(ctx context.Context) {
	res := s.collector.Collect(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if res.Tick != nil {
		s.prices.Append(*res.Tick)
	}
	if res.Features != nil {
		s.prevFeatures = s.features
		s.features = res.Features
	}
	s.mu.Unlock()

	if res.Tick != nil {
		s.resolvePass()
	}
}

// heuristicTask builds the per-horizon loop body. Each invocation reads an
// immutable copy of the current inputs, runs the pure generator and
// records the new pending outcome.
func (s *Session) heuristicTask(h predict.Horizon) func(context.Context) {
	return func(context.Context) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		in := predict.HeuristicInputs{
			Horizon:     h,
			PriceChange: s.priceChangeLocked(),
		}
		if s.features != nil {
			in.Features = *s.features
		}
		if s.prevFeatures != nil {
			prev := *s.prevFeatures
			in.Prev = &prev
		}
		if stats, ok := s.heurTracker.Accuracy(h); ok {
			in.Accuracy = &stats
		}

		p := predict.Heuristic(s.nowFn(), in)
		s.heuristic[h] = p
		s.heurTracker.Record(p)
		s.version++
		s.mu.Unlock()

		s.resolvePass()
	}
}

func (s *Session) priceChangeLocked() float64 {
	ticks := s.prices.Tail(priceDeltaLookback + 1)
	if len(ticks) < priceDeltaLookback+1 {
		return 0
	}
	return ticks[len(ticks)-1].Close - ticks[0].Close
}

// oracleTick performs at most one oracle round trip. The scheduler arms
// the next timer only after this returns, so calls are single-flight by
// construction.
func (s *Session) oracleTick(ctx context.Context) {
	now := s.nowFn()
	if !s.cooldown.Allow(now) {
		logger.Debugf("session: oracle cooling down for another %s", s.cooldown.Remaining(now).Truncate(time.Second))
		return
	}

	s.mu.Lock()
	if s.closed || s.oracleInFlight {
		s.mu.Unlock()
		return
	}
	if s.prices.Len() < s.cfg.OracleMinHistory {
		logger.Debugf("session: oracle waiting for history (%d/%d samples)", s.prices.Len(), s.cfg.OracleMinHistory)
		s.mu.Unlock()
		return
	}
	gen := s.generation
	req := oracle.Request{
		Symbol:   s.cfg.Symbol,
		Prices:   s.prices.Tail(s.cfg.OracleMinHistory),
		Accuracy: s.oracleTracker.AccuracyByHorizon(),
	}
	if s.features != nil {
		feats := *s.features
		req.Features = &feats
	}
	req.Indicators = indicator.Compute(req.Prices)
	s.oracleInFlight = true
	s.version++
	s.mu.Unlock()

	preds, err := s.oracle.Predict(ctx, req)
	s.commitOracleResult(gen, preds, err)
}

// commitOracleResult folds an oracle round trip back into session state.
// A result that arrives after teardown or from a superseded generation is
// discarded.
func (s *Session) commitOracleResult(gen int, preds []predict.Prediction, err error) {
	now := s.nowFn()

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		logger.Debugf("session: discarding oracle result from a closed session")
		return
	}
	s.oracleInFlight = false
	s.version++

	if err != nil {
		s.oraclePreds = nil
		if errors.Is(err, oracle.ErrRateLimited) {
			s.cooldown.Trip(now)
			s.oracleErr = "oracle rate limited; cooling down until " + s.cooldown.Until().Format(time.TimeOnly)
			logger.Warnf("session: %s", s.oracleErr)
		} else {
			s.oracleErr = err.Error()
			logger.Warnf("session: oracle call failed: %v", err)
		}
		s.mu.Unlock()
		return
	}

	s.oracleErr = ""
	s.oraclePreds = preds
	for _, p := range preds {
		s.oracleHistory = append(s.oracleHistory, p)
		s.oracleTracker.Record(p)
	}
	if limit := s.cfg.OracleHistorySize; len(s.oracleHistory) > limit {
		s.oracleHistory = s.oracleHistory[len(s.oracleHistory)-limit:]
	}
	s.mu.Unlock()

	s.resolvePass()
}

// resolvePass re-scans both outcome windows against the price history. It
// runs after every accepted price sample and every outcome insertion. A
// pass that changes nothing does not bump the snapshot version, so
// consumers keying on it skip redundant recomputation.
func (s *Session) resolvePass() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	now := s.nowFn()
	history := s.prices.Items()
	changed := s.oracleTracker.Resolve(now, history)
	if s.heurTracker.Resolve(now, history) {
		changed = true
	}
	if changed {
		s.version++
	}
}

// Snapshot returns a deep-copied view of the session for the display
// layer.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Symbol:            s.cfg.Symbol,
		Taken:             s.nowFn(),
		Version:           s.version,
		Prices:            s.prices.Items(),
		Heuristic:         make(map[string]predict.Prediction, len(s.heuristic)),
		Oracle:            append([]predict.Prediction(nil), s.oraclePreds...),
		OracleHistory:     append([]predict.Prediction(nil), s.oracleHistory...),
		OracleOutcomes:    s.oracleTracker.Outcomes(),
		HeuristicOutcomes: s.heurTracker.Outcomes(),
		OracleAccuracy:    accuracyByName(s.oracleTracker),
		HeuristicAccuracy: accuracyByName(s.heurTracker),
		Sources:           s.collector.Stats(),
	}
	snap.Indicators = indicator.Compute(snap.Prices)
	if s.features != nil {
		feats := *s.features
		snap.Features = &feats
	}
	for h, p := range s.heuristic {
		snap.Heuristic[h.String()] = p
	}

	now := s.nowFn()
	snap.OracleState = OracleState{
		Enabled:   s.cfg.OracleEnabled && s.oracle != nil,
		InFlight:  s.oracleInFlight,
		Degraded:  !s.cooldown.Allow(now),
		LastError: s.oracleErr,
	}
	if until := s.cooldown.Until(); now.Before(until) {
		snap.OracleState.CooldownUntil = until
	}
	return snap
}
