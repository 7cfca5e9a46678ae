package poller

import (
	"context"
	"testing"
	"time"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockEmptier struct {
	calls []string
	err   error
}

func (m *mockEmptier) EmptyCart(_ context.Context, userID string) error {
	m.calls = append(m.calls, userID)
	return m.err
}

func TestHandleMessage_EmptiesCart(t *testing.T) {
	emptier := &mockEmptier{}
	p := &Poller{service: emptier}

	p.handleMessage(context.Background(), []byte(`{"user_id":"user42","order_id":"abc"}`))

	assert.Equal(t, []string{"user42"}, emptier.calls)
}

func TestHandleMessage_MissingCartIsNotRetried(t *testing.T) {
	emptier := &mockEmptier{err: repository.ErrCartNotFound}
	p := &Poller{service: emptier}

	// must not panic or error; a cart that never existed has nothing
	// to empty
	p.handleMessage(context.Background(), []byte(`{"user_id":"ghost"}`))

	assert.Equal(t, []string{"ghost"}, emptier.calls)
}

func TestHandleMessage_BadPayloadIgnored(t *testing.T) {
	emptier := &mockEmptier{}
	p := &Poller{service: emptier}

	p.handleMessage(context.Background(), []byte(`not json`))
	p.handleMessage(context.Background(), []byte(`{"user_id":42}`))
	p.handleMessage(context.Background(), []byte(`{"user_id":""}`))

	assert.Empty(t, emptier.calls)
}

func TestRun_StopsDuringErrorBackoff(t *testing.T) {
	// No broker is listening, so every read fails and the loop sits in
	// its backoff; cancellation must still stop it promptly.
	emptier := &mockEmptier{}
	p := New(emptier, "127.0.0.1:1")
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(readErrBackoff):
		t.Fatal("Run did not stop on cancellation")
	}
}

func TestDecodeUserID(t *testing.T) {
	userID, ok := decodeUserID([]byte(`{"user_id":"u1"}`))
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)

	_, ok = decodeUserID([]byte(`{}`))
	assert.False(t, ok)
}
