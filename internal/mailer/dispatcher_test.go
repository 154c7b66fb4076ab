package mailer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailglobe/trailglobe/internal/logging"
	"github.com/trailglobe/trailglobe/internal/user"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
	gate chan struct{} // if set, Send blocks until the gate closes
}

func (s *recordingSender) Send(msg Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func testUser() *user.User {
	return &user.User{Name: "Ana", Email: "ana@x.com"}
}

func TestDispatcherDeliversVerification(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	d := NewDispatcher(sender, logging.NewLogger(true), "http://app.local", 4)

	d.SendVerification(testUser(), "tok-123")
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ana@x.com", msgs[0].To)
	assert.Equal(t, "Verify your email address", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "token=tok-123")
	assert.Contains(t, msgs[0].Body, "email=ana%40x.com")
}

func TestDispatcherDeliversReset(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	d := NewDispatcher(sender, logging.NewLogger(true), "http://app.local", 4)

	d.SendReset(testUser(), "tok-456")
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Reset your password", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "reset-password?token=tok-456")
}

func TestDispatcherNeverBlocksWhenQueueFull(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	sender := &recordingSender{gate: gate}
	d := NewDispatcher(sender, logging.NewLogger(true), "http://app.local", 1)

	// The worker blocks on the first message; the second fills the queue;
	// further sends must return immediately by dropping.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			d.SendReset(testUser(), "tok")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	close(gate)
	d.Close()
}

func TestDispatcherLogsAndContinuesOnSendFailure(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("smtp unreachable")}
	d := NewDispatcher(sender, logging.NewLogger(true), "http://app.local", 4)

	d.SendVerification(testUser(), "tok-1")
	d.SendReset(testUser(), "tok-2")
	d.Close()

	// Both attempts reach the sender even though the first failed.
	assert.Len(t, sender.messages(), 2)
}
