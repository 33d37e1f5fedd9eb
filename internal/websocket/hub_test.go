package websocket

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitNopLoggers()
	os.Exit(m.Run())
}

var errTimeout = errors.New("i/o timeout")

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	writeErr error
	deadline time.Time
	// stalled writes block until the write deadline passes.
	stalled bool
}

func (f *fakeConn) SetWriteDeadline(t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadline = t
	return nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	if f.stalled {
		deadline := f.deadline
		f.mu.Unlock()
		if deadline.IsZero() {
			select {}
		}
		time.Sleep(time.Until(deadline))
		return errTimeout
	}
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func TestNotifyReachesOnlyTargetUser(t *testing.T) {
	h := startHub(t)
	alice1, alice2, bob := &fakeConn{}, &fakeConn{}, &fakeConn{}
	h.Register <- &Client{UserID: 1, Conn: alice1}
	h.Register <- &Client{UserID: 1, Conn: alice2}
	h.Register <- &Client{UserID: 2, Conn: bob}

	h.Notify(1, service.Event{Type: "task.assigned", Data: map[string]int{"id": 5}})

	require.Eventually(t, func() bool { return alice1.count() == 1 && alice2.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, bob.count())

	var got struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	alice1.mu.Lock()
	require.NoError(t, json.Unmarshal(alice1.messages[0], &got))
	alice1.mu.Unlock()
	assert.Equal(t, "task.assigned", got.Type)
	assert.Equal(t, 5, got.Data["id"])
}

func TestFailedWriteDropsClient(t *testing.T) {
	h := startHub(t)
	broken := &fakeConn{writeErr: errors.New("gone")}
	h.Register <- &Client{UserID: 3, Conn: broken}

	h.Notify(3, service.Event{Type: "comment.created"})
	require.Eventually(t, broken.isClosed, time.Second, 10*time.Millisecond)
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	h := NewHub()
	h.writeWait = 50 * time.Millisecond
	go h.Run()
	t.Cleanup(h.Stop)

	stalled, healthy := &fakeConn{stalled: true}, &fakeConn{}
	h.Register <- &Client{UserID: 5, Conn: stalled}
	h.Register <- &Client{UserID: 6, Conn: healthy}

	h.Notify(5, service.Event{Type: "task.assigned"})
	h.Notify(6, service.Event{Type: "task.assigned"})

	require.Eventually(t, func() bool { return healthy.count() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, stalled.isClosed, time.Second, 10*time.Millisecond)

	late := &fakeConn{}
	select {
	case h.Register <- &Client{UserID: 7, Conn: late}:
	case <-time.After(time.Second):
		t.Fatal("hub loop is blocked")
	}
	healthy.mu.Lock()
	assert.False(t, healthy.deadline.IsZero())
	healthy.mu.Unlock()
}

func TestUnregisterClosesConn(t *testing.T) {
	h := startHub(t)
	conn := &fakeConn{}
	client := &Client{UserID: 4, Conn: conn}
	h.Register <- client
	h.Unregister <- client

	require.Eventually(t, conn.isClosed, time.Second, 10*time.Millisecond)

	h.Notify(4, service.Event{Type: "task.assigned"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, conn.count())
}

func TestStopClosesEverything(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	conn := &fakeConn{}
	h.Register <- &Client{UserID: 1, Conn: conn}

	h.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.True(t, conn.isClosed())

	// Notify after stop must not block.
	h.Notify(1, service.Event{Type: "task.assigned"})
}
