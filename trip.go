package navcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/navcore/guidance"
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/route"
	"github.com/theoremus-urban-solutions/navcore/session"
	"github.com/theoremus-urban-solutions/navcore/telemetry"
)

// DefaultFlushInterval is how often matured telemetry events are sent.
const DefaultFlushInterval = time.Second

// ErrNotRunning is returned by Feedback when the trip loop is not running.
var ErrNotRunning = errors.New("trip is not running")

type tripOptions struct {
	guidance      guidance.Config
	window        time.Duration
	flushInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time
	observers     []guidance.Observer
	veto          func(location.Fix) bool
}

// Option configures a Trip.
type Option func(*tripOptions)

// WithGuidanceConfig sets the engine thresholds.
func WithGuidanceConfig(cfg guidance.Config) Option {
	return func(o *tripOptions) { o.guidance = cfg }
}

// WithCollectionWindow sets the telemetry collection window.
func WithCollectionWindow(d time.Duration) Option {
	return func(o *tripOptions) { o.window = d }
}

// WithFlushInterval sets how often matured events are flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(o *tripOptions) {
		if d > 0 {
			o.flushInterval = d
		}
	}
}

// WithLogger sets the logger shared by the engine and the recorder.
func WithLogger(l *slog.Logger) Option {
	return func(o *tripOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the wall clock, which stands in for the fix timeline
// until the first fix is accepted.
func WithClock(now func() time.Time) Option {
	return func(o *tripOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithObserver registers additional guidance observers, called after the
// telemetry recorder.
func WithObserver(obs ...guidance.Observer) Option {
	return func(o *tripOptions) { o.observers = append(o.observers, obs...) }
}

// WithRerouteVeto installs the engine's reroute veto hook.
func WithRerouteVeto(veto func(location.Fix) bool) Option {
	return func(o *tripOptions) { o.veto = veto }
}

type feedbackRequest struct {
	kind        telemetry.FeedbackType
	description string
	reply       chan uuid.UUID
}

// Trip tracks one journey along a route.
type Trip struct {
	engine        *guidance.Engine
	recorder      *telemetry.Recorder
	session       *session.State
	flushInterval time.Duration
	now           func() time.Time // fix timeline
	logger        *slog.Logger

	feedback chan feedbackRequest
	done     chan struct{}
}

// NewTrip prepares guidance along r. Recalculations go to directions and
// telemetry events to sink.
func NewTrip(r *route.Route, directions guidance.Directions, sink telemetry.Sink, opts ...Option) (*Trip, error) {
	o := tripOptions{
		guidance:      guidance.DefaultConfig(),
		window:        telemetry.DefaultCollectionWindow,
		flushInterval: DefaultFlushInterval,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if sink == nil {
		sink = telemetry.NewLogSink(o.logger)
	}

	s := session.New(r, o.guidance.HistoryCapacity, o.now())
	clock := fixClock(s, o.now)
	rec := telemetry.NewRecorder(s, sink,
		telemetry.WithCollectionWindow(o.window),
		telemetry.WithLogger(o.logger),
		telemetry.WithClock(clock),
	)
	engineOpts := []guidance.Option{
		guidance.WithConfig(o.guidance),
		guidance.WithSession(s),
		guidance.WithLogger(o.logger),
		guidance.WithClock(clock),
		guidance.WithObserver(rec),
		guidance.WithObserver(o.observers...),
	}
	if o.veto != nil {
		engineOpts = append(engineOpts, guidance.WithRerouteVeto(o.veto))
	}
	eng, err := guidance.New(r, directions, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("trip: %w", err)
	}

	return &Trip{
		engine:        eng,
		recorder:      rec,
		session:       s,
		flushInterval: o.flushInterval,
		now:           clock,
		logger:        o.logger.With("trip", s.ID.String()),
		feedback:      make(chan feedbackRequest),
		done:          make(chan struct{}),
	}, nil
}

// fixClock reads time on the fix timeline: the timestamp of the newest
// accepted fix, or the wall clock before the first one.
func fixClock(s *session.State, wall func() time.Time) func() time.Time {
	return func() time.Time {
		if f, ok := s.History.Latest(); ok {
			return f.Timestamp
		}
		return wall()
	}
}

// ID returns the trip identifier.
func (t *Trip) ID() uuid.UUID { return t.session.ID }

// Engine returns the guidance engine. Its state must only be read from
// observers or after Run returns.
func (t *Trip) Engine() *guidance.Engine { return t.engine }

// Recorder returns the telemetry recorder.
func (t *Trip) Recorder() *telemetry.Recorder { return t.recorder }

// Session returns the trip state.
func (t *Trip) Session() *session.State { return t.session }

// Run consumes fixes until the channel is closed or ctx is done. On return
// the trip is torn down: outstanding recalculations are cancelled, a cancel
// event is recorded when the destination was not reached, and every queued
// telemetry event is flushed.
func (t *Trip) Run(ctx context.Context, fixes <-chan location.Fix) error {
	defer close(t.done)
	defer t.teardown(ctx)

	ticker := time.NewTicker(t.flushInterval)
	defer ticker.Stop()

	t.logger.Info("trip started", "distance", t.session.OriginalRoute.Distance)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-fixes:
			if !ok {
				return nil
			}
			if err := t.engine.Advance(f); err != nil {
				if errors.Is(err, guidance.ErrMissingGeometry) {
					t.logger.Warn("dropped fix", "error", err)
					continue
				}
				return fmt.Errorf("trip: %w", err)
			}
		case res := <-t.engine.Completions():
			t.engine.RerouteCompleted(res)
		case req := <-t.feedback:
			req.reply <- t.recorder.RecordFeedback(req.kind, req.description)
		case <-ticker.C:
			t.recorder.Flush(ctx, t.now())
		}
	}
}

// Feedback records user feedback on the trip loop and returns the event id.
func (t *Trip) Feedback(ctx context.Context, kind telemetry.FeedbackType, description string) (uuid.UUID, error) {
	req := feedbackRequest{kind: kind, description: description, reply: make(chan uuid.UUID, 1)}
	select {
	case t.feedback <- req:
	case <-t.done:
		return uuid.Nil, ErrNotRunning
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
	return <-req.reply, nil
}

func (t *Trip) teardown(ctx context.Context) {
	t.engine.Close()
	n := t.recorder.Teardown(context.WithoutCancel(ctx), t.now())
	t.logger.Info("trip ended",
		"arrived", t.session.HasArrived(),
		"reroutes", t.session.RerouteCount,
		"events", n,
	)
}
