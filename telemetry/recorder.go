package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/navcore/guidance"
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/progress"
	"github.com/theoremus-urban-solutions/navcore/session"
)

// FeedbackType classifies user feedback.
type FeedbackType string

const (
	FeedbackGeneral          FeedbackType = "general"
	FeedbackIncorrectVisual  FeedbackType = "incorrect_visual"
	FeedbackConfusingAudio   FeedbackType = "confusing_audio"
	FeedbackRoadClosed       FeedbackType = "road_closed"
	FeedbackRouteQuality     FeedbackType = "route_quality"
	FeedbackPositioningIssue FeedbackType = "positioning_issue"
)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithCollectionWindow sets how long events wait before they are flushed.
func WithCollectionWindow(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.window = d }
}

// WithLogger sets the logger used for sink failures.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the clock used to timestamp feedback events.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// Recorder turns guidance notifications into telemetry events. It implements
// guidance.Observer.
type Recorder struct {
	session *session.State
	queue   *Queue
	window  time.Duration
	logger  *slog.Logger
	now     func() time.Time

	progress    progress.RouteProgress
	hasProgress bool
	lastFix     location.Fix
	departed    bool
	arrived     bool
	tornDown    bool
}

// NewRecorder creates a recorder for the trip tracked by s.
func NewRecorder(s *session.State, sink Sink, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		session: s,
		window:  DefaultCollectionWindow,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = NewQueue(s, sink, r.window, r.logger)
	return r
}

// Queue exposes the underlying event queue.
func (r *Recorder) Queue() *Queue { return r.queue }

// Notify implements guidance.Observer.
func (r *Recorder) Notify(n guidance.Notification) {
	if r.tornDown {
		return
	}
	switch n.Kind {
	case guidance.ProgressChanged:
		r.track(n.Progress, n.Fix)
		if !r.departed {
			r.departed = true
			r.queue.Enqueue(NewEvent(EventDepart, n.Fix.Timestamp, r.tripAttributes()))
		}
	case guidance.AlertLevelChanged:
		r.track(n.Progress, n.Fix)
		if n.Progress.AlertLevel() == progress.AlertArrive && !r.arrived {
			if !r.departed {
				r.departed = true
				r.queue.Enqueue(NewEvent(EventDepart, n.Fix.Timestamp, r.tripAttributes()))
			}
			r.arrived = true
			attrs := r.tripAttributes()
			attrs["arrivalTimestamp"] = formatTime(n.Fix.Timestamp)
			r.queue.Enqueue(NewEvent(EventArrive, n.Fix.Timestamp, attrs))
		}
	case guidance.WillReroute:
		r.lastFix = n.Fix
		attrs := r.tripAttributes()
		attrs["lat"] = n.Fix.Coordinate.Lat
		attrs["lng"] = n.Fix.Coordinate.Lon
		r.queue.Enqueue(NewEvent(EventReroute, n.Fix.Timestamp, attrs))
	case guidance.DidReroute:
		r.progress, r.hasProgress = n.Progress, true
		attrs := map[string]any{
			"newDistanceRemaining": n.Route.Distance,
			"newDurationRemaining": n.Route.ExpectedTravelTime.Seconds(),
			"newGeometry":          n.Route.EncodedGeometry(),
			"rerouteCount":         r.session.RerouteCount,
		}
		if !r.queue.BackfillReroute(attrs) {
			r.logger.Debug("telemetry: reroute completed without a queued event")
		}
	case guidance.RerouteFailed:
		msg := ""
		if n.Err != nil {
			msg = n.Err.Error()
		}
		r.queue.BackfillReroute(map[string]any{"failed": true, "error": msg})
	}
}

// RecordFeedback queues a feedback event and returns its id for later updates.
func (r *Recorder) RecordFeedback(kind FeedbackType, description string) uuid.UUID {
	attrs := r.tripAttributes()
	attrs["feedbackType"] = string(kind)
	attrs["description"] = description
	ev := NewEvent(EventFeedback, r.now(), attrs)
	r.queue.Enqueue(ev)
	return ev.ID
}

// UpdateFeedback changes a feedback event that has not been flushed yet.
func (r *Recorder) UpdateFeedback(id uuid.UUID, kind FeedbackType, description string) bool {
	return r.queue.Update(id, map[string]any{
		"feedbackType": string(kind),
		"description":  description,
	})
}

// Flush sends matured events.
func (r *Recorder) Flush(ctx context.Context, now time.Time) int {
	return r.queue.FlushMatured(ctx, now, false)
}

// Teardown ends the trip: a cancel event is queued when the destination was
// never reached, then every queued event is flushed. Later calls are no-ops.
func (r *Recorder) Teardown(ctx context.Context, now time.Time) int {
	if r.tornDown {
		return 0
	}
	r.tornDown = true
	if !r.arrived {
		attrs := r.tripAttributes()
		attrs["arrivalTimestamp"] = ""
		r.queue.Enqueue(NewEvent(EventCancel, now, attrs))
	}
	return r.queue.FlushMatured(ctx, now, true)
}

func (r *Recorder) track(p progress.RouteProgress, fix location.Fix) {
	r.progress, r.hasProgress = p, true
	r.lastFix = fix
}

// tripAttributes describes the trip at the time an event is created.
func (r *Recorder) tripAttributes() map[string]any {
	s := r.session
	attrs := map[string]any{
		"startTimestamp":          formatTime(s.StartedAt),
		"departTimestamp":         formatTime(s.DepartedAt()),
		"rerouteCount":            s.RerouteCount,
		"secondsSinceLastReroute": s.SecondsSinceLastReroute(r.now()),
		"distanceCompleted":       s.DistanceCompleted,
	}
	if o := s.OriginalRoute; o != nil {
		attrs["originalDistance"] = o.Distance
		attrs["originalDuration"] = o.ExpectedTravelTime.Seconds()
		attrs["originalGeometry"] = o.EncodedGeometry()
		attrs["profile"] = o.Options.ProfileOrDefault()
	}
	if r.hasProgress {
		attrs["distanceCompleted"] = s.DistanceCompleted + r.progress.DistanceTraveled()
		attrs["distanceRemaining"] = r.progress.DistanceRemaining()
		attrs["durationRemaining"] = r.progress.DurationRemaining().Seconds()
		attrs["stepIndex"] = r.progress.StepIndex()
		attrs["stepCount"] = len(r.progress.LegProgress().Leg().Steps)
	}
	if !r.lastFix.Timestamp.IsZero() {
		attrs["lat"] = r.lastFix.Coordinate.Lat
		attrs["lng"] = r.lastFix.Coordinate.Lon
	}
	return attrs
}
