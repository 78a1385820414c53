package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
}

func (f *fakeClient) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func (f *fakeClient) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	good := &fakeClient{}
	bad := &fakeClient{failing: true}
	hub.Register(good)
	hub.Register(bad)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Publish(Event{Type: EventStockUpdated, Message: "Ana removed 3 pcs"})

	require.Eventually(t, func() bool { return len(good.received()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, bad.isClosed())

	var got Event
	require.NoError(t, json.Unmarshal(good.received()[0], &got))
	assert.Equal(t, EventStockUpdated, got.Type)
	assert.Equal(t, "Ana removed 3 pcs", got.Message)

	cancel()
	<-done
	assert.True(t, good.isClosed())
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_PublishDoesNotBlockWithoutRunner(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish(Event{Type: EventProductCreated})
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestHub_RegisterAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())
	cancel()
	hub.Run(ctx)

	late := &fakeClient{}
	hub.Register(late)
	hub.Unregister(late)
	assert.True(t, late.isClosed())
	assert.Equal(t, 0, hub.ClientCount())
}
