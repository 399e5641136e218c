package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguru/agriguru/core"
)

// fakeConn is an in-memory Conn. Frames queued via push are returned by
// ReadJSON; WriteJSON captures outbound frames as raw JSON.
type fakeConn struct {
	inbound chan []byte

	mu        sync.Mutex
	written   [][]byte
	closed    bool
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (c *fakeConn) push(t *testing.T, frame any) {
	t.Helper()
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	c.inbound <- data
}

func (c *fakeConn) ReadJSON(v any) error {
	data, ok := <-c.inbound
	if !ok {
		return errors.New("use of closed connection")
	}
	return json.Unmarshal(data, v)
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("use of closed connection")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.inbound)
	})
	return nil
}

func (c *fakeConn) writtenFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.written))
	copy(out, c.written)
	return out
}

// waitForFrames polls until the connection has at least n written frames.
func (c *fakeConn) waitForFrames(t *testing.T, n int) [][]byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frames := c.writtenFrames()
		if len(frames) >= n {
			return frames
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d written frames, have %d", n, len(c.writtenFrames()))
	return nil
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls [][]core.ToolCallRequest
}

func (d *recordingDispatcher) Dispatch(_ context.Context, calls []core.ToolCallRequest) []core.ToolCallResponse {
	d.mu.Lock()
	d.calls = append(d.calls, calls)
	d.mu.Unlock()

	responses := make([]core.ToolCallResponse, 0, len(calls))
	for _, c := range calls {
		responses = append(responses, core.ToolCallResponse{
			ID:       c.ID,
			Name:     c.Name,
			Response: core.TextResult("handled " + c.Name),
		})
	}
	return responses
}

func newTestBridge(t *testing.T, conn *fakeConn, disp CallDispatcher) *Bridge {
	t.Helper()
	if disp == nil {
		disp = &recordingDispatcher{}
	}
	b, err := NewBridge(Config{
		Endpoint:     "wss://example.invalid/live",
		Model:        "models/test",
		Voice:        "Aoede",
		Modality:     "AUDIO",
		SystemPrompt: "test prompt",
		Dispatcher:   disp,
		Dialer: func(_ context.Context, _ string) (Conn, error) {
			return conn, nil
		},
	})
	require.NoError(t, err)
	return b
}

func TestBridge_ConnectSendsSetup(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"setupComplete": map[string]any{}})
	b := newTestBridge(t, conn, nil)

	require.NoError(t, b.Connect(context.Background()))
	defer b.Close()

	assert.Equal(t, StateConnected, b.State())

	frames := conn.waitForFrames(t, 1)
	var setup struct {
		Setup struct {
			Model string `json:"model"`
			Tools []struct {
				FunctionDeclarations []struct {
					Name string `json:"name"`
				} `json:"functionDeclarations"`
			} `json:"tools"`
		} `json:"setup"`
	}
	require.NoError(t, json.Unmarshal(frames[0], &setup))
	assert.Equal(t, "models/test", setup.Setup.Model)
	require.Len(t, setup.Setup.Tools, 1)
	assert.NotEmpty(t, setup.Setup.Tools[0].FunctionDeclarations)
}

func TestBridge_ToolCallRoundTrip(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"setupComplete": map[string]any{}})
	disp := &recordingDispatcher{}
	b := newTestBridge(t, conn, disp)

	require.NoError(t, b.Connect(context.Background()))
	defer b.Close()

	conn.push(t, map[string]any{"toolCall": map[string]any{
		"functionCalls": []map[string]any{
			{"id": "c-1", "name": "get_reminders", "args": map[string]any{"days_ahead": 3}},
			{"id": "c-2", "name": "get_weather_forecast", "args": map[string]any{"location": "Palakkad"}},
		},
	}})

	frames := conn.waitForFrames(t, 2) // setup + tool response
	var resp toolResponseMessage
	require.NoError(t, json.Unmarshal(frames[1], &resp))
	require.Len(t, resp.ToolResponse.FunctionResponses, 2)
	assert.Equal(t, "c-1", resp.ToolResponse.FunctionResponses[0].ID)
	assert.Equal(t, "get_reminders", resp.ToolResponse.FunctionResponses[0].Name)
	assert.Equal(t, "c-2", resp.ToolResponse.FunctionResponses[1].ID)

	disp.mu.Lock()
	defer disp.mu.Unlock()
	require.Len(t, disp.calls, 1)
	assert.Len(t, disp.calls[0], 2)
}

func TestBridge_AnnounceRequiresConnection(t *testing.T) {
	conn := newFakeConn()
	b := newTestBridge(t, conn, nil)

	err := b.Announce("hello")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBridge_AnnounceWritesClientContent(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"setupComplete": map[string]any{}})
	b := newTestBridge(t, conn, nil)

	require.NoError(t, b.Connect(context.Background()))
	defer b.Close()

	require.NoError(t, b.Announce("Reminder: irrigate field 2"))

	frames := conn.waitForFrames(t, 2)
	var msg clientContentMessage
	require.NoError(t, json.Unmarshal(frames[1], &msg))
	require.Len(t, msg.ClientContent.Turns, 1)
	assert.Equal(t, "user", msg.ClientContent.Turns[0].Role)
	assert.Equal(t, "Reminder: irrigate field 2", msg.ClientContent.Turns[0].Parts[0].Text)
	assert.True(t, msg.ClientContent.TurnComplete)
}

func TestBridge_CloseStopsReadLoop(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"setupComplete": map[string]any{}})
	b := newTestBridge(t, conn, nil)

	require.NoError(t, b.Connect(context.Background()))
	require.NoError(t, b.Close())

	assert.Equal(t, StateDisconnected, b.State())
	assert.ErrorIs(t, b.Announce("late"), ErrNotConnected)

	// Closing again is a no-op.
	assert.NoError(t, b.Close())
}

func TestBridge_CloseDuringConnectAborts(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"setupComplete": map[string]any{}})

	dialed := make(chan struct{})
	release := make(chan struct{})
	b, err := NewBridge(Config{
		Endpoint:   "wss://example.invalid/live",
		Dispatcher: &recordingDispatcher{},
		Dialer: func(_ context.Context, _ string) (Conn, error) {
			close(dialed)
			<-release
			return conn, nil
		},
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- b.Connect(context.Background()) }()

	<-dialed
	assert.Equal(t, StateConnecting, b.State())
	require.NoError(t, b.Close())
	close(release)

	// The connect attempt must fail instead of resurrecting the channel.
	require.Error(t, <-errCh)
	assert.Equal(t, StateDisconnected, b.State())
	assert.ErrorIs(t, b.Announce("late"), ErrNotConnected)
}

func TestBridge_ConnectRejectsUnexpectedFirstFrame(t *testing.T) {
	conn := newFakeConn()
	conn.push(t, map[string]any{"toolCall": map[string]any{}})
	b := newTestBridge(t, conn, nil)

	err := b.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, b.State())
}
