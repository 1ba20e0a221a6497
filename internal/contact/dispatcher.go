package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jitendra-sudo/portfolio/internal/relay"
)

// ErrBusy is returned when a submission arrives while another one is in flight.
var ErrBusy = errors.New("a message is already being sent")

// State is the dispatcher's position in its idle/sending cycle.
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

// Outcome tags a Result.
type Outcome string

const (
	// OutcomeSkipped: a field was blank, nothing was sent.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeRejected: another submission was still in flight.
	OutcomeRejected Outcome = "rejected"
	OutcomeSent     Outcome = "sent"
	OutcomeFailed   Outcome = "failed"
)

// Result is the outcome of one Submit call.
type Result struct {
	Outcome  Outcome
	Ack      *relay.Ack
	Err      error
	Provider string
	Duration time.Duration
}

// Observer is notified of every Result a dispatcher produces.
type Observer interface {
	ObserveDispatch(ctx context.Context, sessionID string, res Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, sessionID string, res Result)

func (f ObserverFunc) ObserveDispatch(ctx context.Context, sessionID string, res Result) {
	f(ctx, sessionID, res)
}

// Dispatcher guards and performs the outbound send for one session.
type Dispatcher struct {
	relay     relay.Relay
	log       *zap.Logger
	observer  Observer
	sessionID string

	mu    sync.Mutex
	state State
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for relay failures.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithObserver registers an observer for every Result.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithSessionID tags observed results with the owning session.
func WithSessionID(id string) Option {
	return func(d *Dispatcher) { d.sessionID = id }
}

// NewDispatcher returns an idle dispatcher sending through r.
func NewDispatcher(r relay.Relay, opts ...Option) *Dispatcher {
	d := &Dispatcher{relay: r, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Sending reports whether a relay call is in flight.
func (d *Dispatcher) Sending() bool {
	return d.State() == StateSending
}

// Submit sends the record held by form.
func (d *Dispatcher) Submit(ctx context.Context, form *Form) Result {
	return d.SubmitRecord(ctx, form, form.Snapshot())
}

// SubmitRecord stores rec in form and sends it.
//
// A call made while another is in flight is rejected with ErrBusy and leaves
// form untouched. A record with a blank field is stored but skipped without
// touching the relay or the state. On success the form is reset; on failure it
// keeps rec. Once the relay call starts it is not cancelled by ctx.
func (d *Dispatcher) SubmitRecord(ctx context.Context, form *Form, rec Submission) Result {
	d.mu.Lock()
	if d.state == StateSending {
		d.mu.Unlock()
		return d.finish(ctx, Result{Outcome: OutcomeRejected, Err: ErrBusy})
	}
	form.Fill(rec)
	if !rec.Submittable() {
		d.mu.Unlock()
		return d.finish(ctx, Result{Outcome: OutcomeSkipped})
	}
	d.state = StateSending
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.state = StateIdle
		d.mu.Unlock()
	}()

	start := time.Now()
	ack, err := d.relay.Send(context.WithoutCancel(ctx), relay.Message{
		FromName: rec.Name,
		ReplyTo:  rec.Email,
		Body:     rec.Message,
	})
	res := Result{Provider: d.relay.Name(), Duration: time.Since(start)}

	if err != nil {
		d.log.Error("contact relay failed",
			zap.String("provider", res.Provider),
			zap.String("kind", relay.Kind(err)),
			zap.Error(err),
		)
		res.Outcome = OutcomeFailed
		res.Err = err
		return d.finish(ctx, res)
	}

	form.Reset()
	res.Outcome = OutcomeSent
	res.Ack = ack
	return d.finish(ctx, res)
}

func (d *Dispatcher) finish(ctx context.Context, res Result) Result {
	if d.observer != nil {
		d.observer.ObserveDispatch(ctx, d.sessionID, res)
	}
	return res
}
