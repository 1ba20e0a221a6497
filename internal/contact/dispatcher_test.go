package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jitendra-sudo/portfolio/internal/contact"
	"github.com/jitendra-sudo/portfolio/internal/relay"
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Name() string { return "mock" }

func (m *MockRelay) Send(ctx context.Context, msg relay.Message) (*relay.Ack, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relay.Ack), args.Error(1)
}

func filledForm(rec contact.Submission) *contact.Form {
	form := contact.NewForm()
	form.Fill(rec)
	return form
}

func TestDispatcher_SubmitSuccess(t *testing.T) {
	rec := contact.Submission{Name: "Ann", Email: "ann@x.com", Message: "Hi"}
	want := relay.Message{FromName: "Ann", ReplyTo: "ann@x.com", Body: "Hi"}

	r := new(MockRelay)
	d := contact.NewDispatcher(r)
	r.On("Send", mock.Anything, want).
		Run(func(mock.Arguments) { assert.True(t, d.Sending(), "sending while relay call is in flight") }).
		Return(&relay.Ack{Provider: "mock", StatusCode: 200, Text: "OK"}, nil).
		Once()

	form := filledForm(rec)
	require.False(t, d.Sending())

	res := d.Submit(context.Background(), form)

	assert.Equal(t, contact.OutcomeSent, res.Outcome)
	require.NotNil(t, res.Ack)
	assert.Equal(t, "OK", res.Ack.Text)
	assert.NoError(t, res.Err)
	assert.Equal(t, contact.Submission{}, form.Snapshot())
	assert.False(t, d.Sending())
	assert.Equal(t, contact.StateIdle, d.State())
	r.AssertExpectations(t)
}

func TestDispatcher_SubmitSkipsBlankFields(t *testing.T) {
	records := []contact.Submission{
		{Name: "", Email: "ann@x.com", Message: "Hi"},
		{Name: "Ann", Email: " ", Message: "Hi"},
		{Name: "Ann", Email: "ann@x.com", Message: "\n"},
		{},
	}

	for _, rec := range records {
		r := new(MockRelay)
		d := contact.NewDispatcher(r)
		form := filledForm(rec)

		res := d.Submit(context.Background(), form)

		assert.Equal(t, contact.OutcomeSkipped, res.Outcome)
		assert.NoError(t, res.Err)
		assert.Equal(t, rec, form.Snapshot())
		assert.False(t, d.Sending())
		r.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	}
}

func TestDispatcher_SubmitFailureKeepsRecord(t *testing.T) {
	rec := contact.Submission{Name: "Bob", Email: "bob@x.com", Message: "Hello"}
	sendErr := errors.New("network unreachable")

	r := new(MockRelay)
	r.On("Send", mock.Anything, mock.Anything).Return(nil, sendErr).Once()

	d := contact.NewDispatcher(r)
	form := filledForm(rec)

	res := d.Submit(context.Background(), form)

	assert.Equal(t, contact.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, sendErr)
	assert.Nil(t, res.Ack)
	assert.Equal(t, rec, form.Snapshot())
	assert.False(t, d.Sending())
	r.AssertNumberOfCalls(t, "Send", 1)
}

func TestDispatcher_RejectsWhileSending(t *testing.T) {
	rec := contact.Submission{Name: "Ann", Email: "ann@x.com", Message: "Hi"}

	entered := make(chan struct{})
	release := make(chan struct{})

	r := new(MockRelay)
	r.On("Send", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&relay.Ack{Provider: "mock"}, nil).
		Once()

	d := contact.NewDispatcher(r)

	var (
		wg    sync.WaitGroup
		first contact.Result
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = d.Submit(context.Background(), filledForm(rec))
	}()

	<-entered
	assert.True(t, d.Sending())

	second := d.Submit(context.Background(), filledForm(rec))
	assert.Equal(t, contact.OutcomeRejected, second.Outcome)
	assert.ErrorIs(t, second.Err, contact.ErrBusy)

	close(release)
	wg.Wait()

	assert.Equal(t, contact.OutcomeSent, first.Outcome)
	assert.False(t, d.Sending())
	r.AssertNumberOfCalls(t, "Send", 1)
}

func TestDispatcher_RejectedRecordDoesNotReplaceInFlight(t *testing.T) {
	inFlight := contact.Submission{Name: "Bob", Email: "bob@x.com", Message: "Hello"}
	late := contact.Submission{Name: "Eve", Email: "eve@x.com", Message: "Other"}
	sendErr := errors.New("relay down")

	entered := make(chan struct{})
	release := make(chan struct{})

	r := new(MockRelay)
	r.On("Send", mock.Anything, relay.Message{FromName: "Bob", ReplyTo: "bob@x.com", Body: "Hello"}).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil, sendErr).
		Once()

	d := contact.NewDispatcher(r)
	form := contact.NewForm()

	done := make(chan contact.Result, 1)
	go func() { done <- d.SubmitRecord(context.Background(), form, inFlight) }()
	<-entered

	second := d.SubmitRecord(context.Background(), form, late)
	assert.Equal(t, contact.OutcomeRejected, second.Outcome)
	assert.Equal(t, inFlight, form.Snapshot())

	close(release)
	first := <-done

	assert.Equal(t, contact.OutcomeFailed, first.Outcome)
	assert.Equal(t, inFlight, form.Snapshot())
	r.AssertExpectations(t)
}

func TestDispatcher_SubmitRecordStoresSkippedRecord(t *testing.T) {
	rec := contact.Submission{Name: "Ann", Email: "", Message: "Hi"}
	r := new(MockRelay)
	d := contact.NewDispatcher(r)
	form := contact.NewForm()

	res := d.SubmitRecord(context.Background(), form, rec)

	assert.Equal(t, contact.OutcomeSkipped, res.Outcome)
	assert.Equal(t, rec, form.Snapshot())
	r.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatcher_RelayCallIgnoresCallerCancellation(t *testing.T) {
	r := new(MockRelay)
	r.On("Send", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).
		Return(&relay.Ack{Provider: "mock"}, nil).
		Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := contact.NewDispatcher(r)
	res := d.Submit(ctx, filledForm(contact.Submission{Name: "Ann", Email: "ann@x.com", Message: "Hi"}))

	assert.Equal(t, contact.OutcomeSent, res.Outcome)
	r.AssertExpectations(t)
}

func TestDispatcher_NotifiesObserver(t *testing.T) {
	r := new(MockRelay)
	r.On("Send", mock.Anything, mock.Anything).Return(&relay.Ack{Provider: "mock"}, nil)

	var (
		mu       sync.Mutex
		outcomes []contact.Outcome
		sessions []string
	)
	obs := contact.ObserverFunc(func(_ context.Context, sessionID string, res contact.Result) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, res.Outcome)
		sessions = append(sessions, sessionID)
	})

	d := contact.NewDispatcher(r, contact.WithObserver(obs), contact.WithSessionID("s-1"))

	d.Submit(context.Background(), filledForm(contact.Submission{}))
	res := d.Submit(context.Background(), filledForm(contact.Submission{Name: "Ann", Email: "ann@x.com", Message: "Hi"}))

	assert.Equal(t, "mock", res.Provider)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
	assert.Equal(t, []contact.Outcome{contact.OutcomeSkipped, contact.OutcomeSent}, outcomes)
	assert.Equal(t, []string{"s-1", "s-1"}, sessions)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", contact.StateIdle.String())
	assert.Equal(t, "sending", contact.StateSending.String())
}
