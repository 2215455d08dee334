package guidance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/progress"
	"github.com/theoremus-urban-solutions/navcore/route"
	"github.com/theoremus-urban-solutions/navcore/session"
)

var (
	// ErrNoRoute is returned when a route has no legs or steps to follow.
	ErrNoRoute = errors.New("route has no steps")
	// ErrMissingGeometry is returned when the current step has no coordinates.
	ErrMissingGeometry = errors.New("step has no geometry")
	// ErrClosed is returned by Advance after Close.
	ErrClosed = errors.New("guidance engine closed")
)

// Directions calculates a route for the given options.
type Directions interface {
	Calculate(ctx context.Context, opts route.Options) (*route.Route, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the default thresholds.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg.withDefaults() }
}

// WithObserver registers observers for engine notifications.
func WithObserver(obs ...Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs...) }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the wall clock used for session bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRerouteVeto installs a hook consulted before every reroute; returning
// true keeps the current route.
func WithRerouteVeto(veto func(location.Fix) bool) Option {
	return func(e *Engine) { e.veto = veto }
}

// WithSession makes the engine record into an existing session, so observers
// built before the engine can share it. The session must track r.
func WithSession(s *session.State) Option {
	return func(e *Engine) { e.session = s }
}

// Engine is the guidance state machine for one trip. It is not safe for
// concurrent use; see the package documentation.
type Engine struct {
	cfg        Config
	directions Directions
	observers  []Observer
	logger     *slog.Logger
	now        func() time.Time
	veto       func(location.Fix) bool

	session  *session.State
	progress *progress.RouteProgress
	lastFix  location.Fix
	hasFix   bool
	drift    driftGuard
	closed   bool

	reroute rerouteState
}

// New creates an engine tracking r. Recalculations are sent to directions.
func New(r *route.Route, directions Directions, opts ...Option) (*Engine, error) {
	if err := validateRoute(r); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        DefaultConfig(),
		directions: directions,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.drift = newDriftGuard(e.cfg.DepartureGraceInterval)
	if e.session == nil {
		e.session = session.New(r, e.cfg.HistoryCapacity, e.now())
	}
	e.progress = progress.New(r, progress.AlertNone)
	e.reroute = newRerouteState()
	e.logger = e.logger.With("trip", e.session.ID.String())
	return e, nil
}

// Config returns the effective thresholds.
func (e *Engine) Config() Config { return e.cfg }

// Session returns the trip state. It must only be read on the owner's timeline.
func (e *Engine) Session() *session.State { return e.session }

// Progress returns a copy of the current progress model. Later fixes do not
// change it.
func (e *Engine) Progress() *progress.RouteProgress {
	snap := e.progress.Snapshot()
	return &snap
}

// Advance ingests a batch of fixes in delivery order. Every fix is recorded in
// the session history; guidance runs once, on the newest accepted fix. Fixes
// that are invalid or not newer than the last accepted one are dropped.
func (e *Engine) Advance(fixes ...location.Fix) error {
	if e.closed {
		return ErrClosed
	}
	if len(fixes) == 0 {
		return nil
	}

	arrived := e.progress.AlertLevel() == progress.AlertArrive
	if !arrived {
		lp := e.progress.LegProgress()
		if len(lp.CurrentStep().Coordinates) == 0 {
			return fmt.Errorf("leg %d step %d: %w", lp.LegIndex(), lp.StepIndex(), ErrMissingGeometry)
		}
	}

	var (
		latest   location.Fix
		accepted bool
	)
	for _, f := range fixes {
		if !f.IsValid() || (e.hasFix && !f.After(e.lastFix)) {
			continue
		}
		e.session.History.Push(f)
		e.lastFix, e.hasFix = f, true
		latest, accepted = f, true
	}

	batch := make([]location.Fix, len(fixes))
	copy(batch, fixes)
	e.emit(Notification{Kind: PositionsReceived, Fixes: batch})

	if !accepted || arrived {
		return nil
	}
	e.process(latest)
	return nil
}

// Close cancels any outstanding recalculation and makes later Advance calls
// fail with ErrClosed. A cancelled request still completes on Completions.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.reroute.stop()
}

func (e *Engine) process(fix location.Fix) {
	lp := e.progress.LegProgress()
	levelBefore := lp.AlertLevel()
	indexBefore := lp.StepIndex()

	onRoute, upcoming := e.checkOnRoute(fix)
	advanced := false
	switch {
	case onRoute:
		e.drift.reset()
	case upcoming:
		// the maneuver was completed between fixes
		next, _ := lp.UpcomingStep()
		advanced = lp.AdvanceStep(e.levelForStep(next))
		e.drift.reset()
		e.logger.Debug("advanced step on upcoming geometry", "step", lp.StepIndex())
	default:
		step := lp.CurrentStep()
		if step.IsDeparture() && e.drift.suppress(fix, distanceFromStart(step, fix, e.acceptanceRadius(fix))) {
			return
		}
		if e.veto == nil || !e.veto(fix) {
			e.startReroute(fix)
			return
		}
	}

	e.monitorStepProgress(fix, advanced, levelBefore, indexBefore)
}

func (e *Engine) emit(n Notification) {
	for _, o := range e.observers {
		o.Notify(n)
	}
}

func validateRoute(r *route.Route) error {
	if r == nil {
		return ErrNoRoute
	}
	leg, ok := r.Leg(0)
	if !ok || len(leg.Steps) == 0 {
		return ErrNoRoute
	}
	return nil
}
