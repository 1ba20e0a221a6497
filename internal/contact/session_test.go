package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jitendra-sudo/portfolio/internal/relay"
)

type blockingRelay struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRelay) Name() string { return "blocking" }

func (b *blockingRelay) Send(context.Context, relay.Message) (*relay.Ack, error) {
	close(b.entered)
	<-b.release
	return &relay.Ack{Provider: "blocking"}, nil
}

func TestSessions_Open(t *testing.T) {
	var created []string
	s := NewSessions(func(id string) *Dispatcher {
		created = append(created, id)
		return NewDispatcher(relay.NewLog(zap.NewNop()))
	})

	first := s.Open("")
	require.NotEmpty(t, first.ID)
	assert.True(t, first.Form.Snapshot().IsEmpty())

	again := s.Open(first.ID)
	assert.Same(t, first, again)
	assert.Equal(t, []string{first.ID}, created)

	other := s.Open("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", other.ID)
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get(other.ID)
	assert.True(t, ok)
	assert.Same(t, other, got)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSessions_Sweep(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	br := &blockingRelay{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSessions(func(string) *Dispatcher { return NewDispatcher(br) })
	s.now = func() time.Time { return now }

	stale := s.Open("")
	busy := s.Open("")

	now = now.Add(30 * time.Minute)
	fresh := s.Open("")

	busy.Form.Fill(Submission{Name: "Ann", Email: "ann@x.com", Message: "Hi"})
	done := make(chan Result)
	go func() { done <- busy.Dispatcher.Submit(context.Background(), busy.Form) }()
	<-br.entered

	removed := s.Sweep(10 * time.Minute)
	assert.Equal(t, 1, removed)

	_, ok := s.Get(stale.ID)
	assert.False(t, ok)
	_, ok = s.Get(busy.ID)
	assert.True(t, ok, "session with a send in flight is kept")
	_, ok = s.Get(fresh.ID)
	assert.True(t, ok)

	close(br.release)
	assert.Equal(t, OutcomeSent, (<-done).Outcome)
}
