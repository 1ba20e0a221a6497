package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jitendra-sudo/portfolio/internal/contact"
	"github.com/jitendra-sudo/portfolio/internal/metrics"
	"github.com/jitendra-sudo/portfolio/internal/relay"
	"github.com/jitendra-sudo/portfolio/internal/store"
)

// dispatchRecorder feeds dispatch outcomes into metrics and the analytics store.
type dispatchRecorder struct {
	store *store.Store
	hash  func(string) string
	log   *zap.Logger
}

func (r *dispatchRecorder) ObserveDispatch(ctx context.Context, sessionID string, res contact.Result) {
	metrics.ContactSubmissions.WithLabelValues(string(res.Outcome)).Inc()
	if res.Provider != "" {
		metrics.RelaySendSeconds.WithLabelValues(res.Provider).Observe(res.Duration.Seconds())
	}

	// Skipped submissions never reached the relay; counting them is enough.
	if res.Outcome == contact.OutcomeSkipped {
		return
	}

	err := r.store.RecordDispatch(context.WithoutCancel(ctx), store.Dispatch{
		SessionHash: r.hash(sessionID),
		Outcome:     string(res.Outcome),
		Provider:    res.Provider,
		ErrorKind:   relay.Kind(res.Err),
		DurationMs:  res.Duration.Milliseconds(),
		Timestamp:   time.Now(),
	})
	if err != nil {
		r.log.Warn("failed to record dispatch", zap.Error(err))
	}
}

func newSessions(rl relay.Relay, rec contact.Observer, log *zap.Logger) *contact.Sessions {
	return contact.NewSessions(func(id string) *contact.Dispatcher {
		return contact.NewDispatcher(rl,
			contact.WithLogger(log.With(zap.String("session", id[:8]))),
			contact.WithObserver(rec),
			contact.WithSessionID(id),
		)
	})
}
