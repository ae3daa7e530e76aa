// Package scheduler runs the background collection loop: fetch from the
// upstream, map to samples, swap the snapshot, record health. HTTP
// handlers never reach the upstream; they only read what this loop wrote.
package scheduler

import (
	"context"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/ports"
	"github.com/fulviofreitas/eero-exporter/internal/services/mapper"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// Loop states and the events that move between them. A collect event is
// only valid from idle, which is what makes overlapping cycles impossible:
// a tick that fires mid-cycle fails the transition and is dropped.
const (
	StateIdle       = "idle"
	StateCollecting = "collecting"

	EventCollect = "collect"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// Config carries the loop's knobs. Zero values fall back to defaults.
type Config struct {
	Interval        time.Duration
	UpstreamTimeout time.Duration
	RateLimitMax    time.Duration
	CompoundBackoff bool
	IncludeDevices  bool
	IncludeProfiles bool
	WithActivity    bool
	WithBackup      bool
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = 30 * time.Second
	}
	if c.RateLimitMax <= 0 {
		c.RateLimitMax = 15 * time.Minute
	}
	return c
}

// ExtraSampler contributes process-level samples appended to every
// successful snapshot.
type ExtraSampler func() []domain.Sample

// Scheduler is the sole writer of the snapshot cache and health state.
type Scheduler struct {
	cfg      Config
	fetcher  *fetcher
	mapper   *mapper.Mapper
	sessions ports.SessionValidator
	cache    *store.SnapshotCache
	health   *store.Health
	machine  *fsm.FSM
	backoff  *backoff
	extra    ExtraSampler
	onCycle  func(context.Context, store.Outcome)
	log      *zap.Logger
	nextSeq  uint64
}

func New(cfg Config, upstream ports.Upstream, sessions ports.SessionValidator, cache *store.SnapshotCache, health *store.Health, log *zap.Logger) *Scheduler {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{
		cfg:      cfg,
		fetcher:  newFetcher(upstream, cfg, log),
		mapper:   mapper.New(cfg.IncludeDevices, cfg.IncludeProfiles),
		sessions: sessions,
		cache:    cache,
		health:   health,
		backoff:  newBackoff(cfg.Interval, cfg.RateLimitMax, cfg.CompoundBackoff),
		log:      log,
	}
	s.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventCollect, Src: []string{StateIdle}, Dst: StateCollecting},
			{Name: EventSucceed, Src: []string{StateCollecting}, Dst: StateIdle},
			{Name: EventFail, Src: []string{StateCollecting}, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)
	return s
}

// NotifyCycle registers fn to run after every recorded cycle. Call before
// Run.
func (s *Scheduler) NotifyCycle(fn func(context.Context, store.Outcome)) {
	s.onCycle = fn
}

// SampleProcess registers fn whose samples ride along in each snapshot.
// Call before Run.
func (s *Scheduler) SampleProcess(fn ExtraSampler) {
	s.extra = fn
}

// State reports the loop's current machine state.
func (s *Scheduler) State() string {
	return s.machine.Current()
}

// Run collects once immediately, then keeps collecting until ctx is
// cancelled. The wait between cycles follows the backoff policy.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(s.step(ctx))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			timer.Reset(s.step(ctx))
		}
	}
}

func (s *Scheduler) step(ctx context.Context) time.Duration {
	out, done := s.RunOnce(ctx)
	if !done {
		return s.cfg.Interval
	}
	wait := s.backoff.after(out.Err)
	if out.Err == domain.KindRateLimited {
		s.log.Warn("upstream throttling, stretching interval", zap.Duration("wait", wait))
	}
	return wait
}

// RunOnce performs a single guarded cycle. It reports done=false when the
// attempt was dropped because another cycle holds the machine, or when ctx
// was cancelled mid-cycle; a dropped or aborted cycle records nothing.
func (s *Scheduler) RunOnce(ctx context.Context) (store.Outcome, bool) {
	if err := s.machine.Event(ctx, EventCollect); err != nil {
		s.log.Warn("collection tick dropped", zap.Error(err))
		return store.Outcome{}, false
	}

	out := s.cycle(ctx)

	terminal := EventFail
	if out.Success {
		terminal = EventSucceed
	}
	// The machine must return to idle even during shutdown.
	if err := s.machine.Event(context.Background(), terminal); err != nil {
		s.log.Error("state transition failed", zap.String("event", terminal), zap.Error(err))
	}

	if ctx.Err() != nil {
		return out, false
	}

	s.health.Record(out)
	if s.onCycle != nil {
		s.onCycle(ctx, out)
	}
	return out, true
}

func (s *Scheduler) cycle(ctx context.Context) store.Outcome {
	start := time.Now()

	valid := s.sessions.Validate(ctx)
	if !valid {
		s.log.Warn("stored session failed validation")
	}
	out := store.Outcome{Time: start, SessionValid: valid}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	bundle, calls, err := s.fetcher.fetch(fctx)
	out.APICalls = calls
	if err != nil {
		out.Err = failureKind(valid, err)
		out.Duration = time.Since(start)
		s.log.Error("collection failed", zap.String("kind", string(out.Err)), zap.Error(err))
		return out
	}

	samples, entityErrs, err := s.mapper.Map(bundle)
	for _, ee := range entityErrs {
		s.log.Warn("entity skipped",
			zap.String("category", ee.Category),
			zap.String("entity", ee.EntityID),
			zap.String("reason", ee.Reason))
	}
	if err != nil {
		out.Err = failureKind(valid, err)
		out.Duration = time.Since(start)
		s.log.Error("mapping failed", zap.Error(err))
		return out
	}

	if !valid {
		// Data arrived, but credentials we cannot vouch for produced it.
		out.Err = domain.KindAuth
		out.Duration = time.Since(start)
		return out
	}

	if s.extra != nil {
		samples = append(samples, s.extra()...)
	}
	snap := &domain.Snapshot{
		CollectedAt: time.Now(),
		Samples:     samples,
		Sequence:    s.nextSeq,
		Success:     true,
	}
	s.cache.Replace(snap)
	s.nextSeq++

	out.Success = true
	out.Samples = len(samples)
	out.Sequence = snap.Sequence
	out.Duration = time.Since(start)
	s.log.Info("collection complete",
		zap.Uint64("sequence", snap.Sequence),
		zap.Int("samples", len(samples)),
		zap.Duration("took", out.Duration))
	return out
}

// failureKind keeps an invalid session authoritative over whatever else
// went wrong in the same cycle.
func failureKind(sessionValid bool, err error) domain.ErrorKind {
	if !sessionValid {
		return domain.KindAuth
	}
	return domain.Kind(err)
}
