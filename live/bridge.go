// Package live maintains the bidirectional realtime channel between the
// session core and the model endpoint. The bridge owns the connection state
// machine, forwards inbound tool-call batches to the dispatcher, writes the
// correlated response batch back, and lets background components inject
// proactive announcements into the conversation.
package live

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/logging"
)

// State is the bridge connection lifecycle state.
type State int

const (
	// StateDisconnected means no channel is open.
	StateDisconnected State = iota
	// StateConnecting means the socket is open but setup has not completed.
	StateConnecting
	// StateConnected means setup completed and traffic flows.
	StateConnected
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ErrNotConnected reports an operation that needs an established channel.
var ErrNotConnected = errors.New("live: not connected")

// Conn is the subset of a websocket connection the bridge uses. Tests supply
// an in-memory implementation; production wraps *websocket.Conn.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Dialer opens a connection to the live endpoint.
type Dialer func(ctx context.Context, endpoint string) (Conn, error)

// DefaultDialer dials the endpoint with gorilla/websocket.
func DefaultDialer(ctx context.Context, endpoint string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("live: dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("live: dial %s: %w", endpoint, err)
	}
	return conn, nil
}

// CallDispatcher executes a batch of tool calls and returns the correlated
// responses. Implemented by *dispatch.Dispatcher.
type CallDispatcher interface {
	Dispatch(ctx context.Context, calls []core.ToolCallRequest) []core.ToolCallResponse
}

// Config configures a Bridge.
type Config struct {
	Endpoint     string
	Model        string
	Voice        string
	Modality     string
	SystemPrompt string

	Dispatcher CallDispatcher
	Logger     logging.Logger
	Dialer     Dialer
}

// Bridge is the realtime session channel. All exported methods are safe for
// concurrent use; writes to the underlying connection are serialized.
type Bridge struct {
	cfg    Config
	logger logging.Logger
	dial   Dialer

	mu      sync.Mutex
	state   State
	gen     int // bumped by Close so an in-flight Connect aborts
	conn    Conn
	writeMu sync.Mutex

	done chan struct{}
}

// NewBridge constructs a disconnected bridge.
func NewBridge(cfg Config) (*Bridge, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("live: endpoint is required")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("live: dispatcher is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	dial := cfg.Dialer
	if dial == nil {
		dial = DefaultDialer
	}
	return &Bridge{cfg: cfg, logger: logger, dial: dial, state: StateDisconnected}, nil
}

// State reports the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Connect dials the endpoint, sends the setup frame and starts the read loop.
// It returns once setup is acknowledged. Calling Connect on a non-disconnected
// bridge is an error.
func (b *Bridge) Connect(ctx context.Context) error {
	b.mu.Lock()
	if b.state != StateDisconnected {
		state := b.state
		b.mu.Unlock()
		return fmt.Errorf("live: connect in state %s", state)
	}
	b.state = StateConnecting
	gen := b.gen
	b.mu.Unlock()

	conn, err := b.dial(ctx, b.cfg.Endpoint)
	if err != nil {
		b.abortConnect(gen, nil)
		return err
	}

	setup := newSetupMessage(b.cfg.Model, b.cfg.Voice, b.cfg.Modality, b.cfg.SystemPrompt)
	if err := conn.WriteJSON(setup); err != nil {
		b.abortConnect(gen, conn)
		return fmt.Errorf("live: send setup: %w", err)
	}

	// The endpoint acknowledges setup before any other traffic.
	var frame serverFrame
	if err := conn.ReadJSON(&frame); err != nil {
		b.abortConnect(gen, conn)
		return fmt.Errorf("live: await setup ack: %w", err)
	}
	if frame.SetupComplete == nil {
		b.abortConnect(gen, conn)
		return fmt.Errorf("live: unexpected frame before setup ack")
	}

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		conn.Close()
		return fmt.Errorf("live: bridge closed during connect")
	}
	b.conn = conn
	b.state = StateConnected
	b.done = make(chan struct{})
	done := b.done
	b.mu.Unlock()

	b.logger.Info("live channel connected", "endpoint", b.cfg.Endpoint, "model", b.cfg.Model)

	go b.readLoop(ctx, conn, done, gen)
	return nil
}

// abortConnect rolls a failed connect attempt back to disconnected. A Close
// that raced the attempt has already moved the generation on; its state is
// left alone.
func (b *Bridge) abortConnect(gen int, conn Conn) {
	if conn != nil {
		conn.Close()
	}
	b.mu.Lock()
	if b.gen == gen && b.state == StateConnecting {
		b.state = StateDisconnected
	}
	b.mu.Unlock()
}

// readLoop drains inbound frames until the connection fails or the bridge
// closes. Tool-call batches are dispatched sequentially; the correlated
// response batch is written back on the same connection.
func (b *Bridge) readLoop(ctx context.Context, conn Conn, done chan struct{}, gen int) {
	defer close(done)
	defer b.teardown(gen)

	for {
		var frame serverFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if b.State() == StateConnected {
				b.logger.Warn("live channel read failed", "error", err.Error())
			}
			return
		}
		if frame.ToolCall == nil || len(frame.ToolCall.FunctionCalls) == 0 {
			continue
		}

		responses := b.cfg.Dispatcher.Dispatch(ctx, frame.ToolCall.FunctionCalls)
		msg := toolResponseMessage{ToolResponse: toolResponsePayload{FunctionResponses: responses}}
		if err := b.writeJSON(conn, msg); err != nil {
			b.logger.Error("live channel write failed", "error", err.Error())
			return
		}
	}
}

// Announce injects text into the conversation as a completed user turn. On a
// bridge that is not connected it is a logged no-op; callers that need
// delivery guarantees must hold their own retry state.
func (b *Bridge) Announce(text string) error {
	b.mu.Lock()
	conn, state := b.conn, b.state
	b.mu.Unlock()

	if state != StateConnected || conn == nil {
		b.logger.Debug("announcement dropped", "state", state.String())
		return ErrNotConnected
	}
	return b.writeJSON(conn, newAnnouncement(text))
}

func (b *Bridge) writeJSON(conn Conn, v any) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// Close tears the channel down. The read loop is guaranteed to have exited
// before Close returns, and an in-flight Connect fails rather than leave the
// bridge connected afterwards. Closing a disconnected bridge is a no-op.
func (b *Bridge) Close() error {
	b.mu.Lock()
	conn, done := b.conn, b.done
	b.conn = nil
	b.done = nil
	b.state = StateDisconnected
	b.gen++
	b.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	if done != nil {
		<-done
	}
	b.logger.Info("live channel closed")
	return err
}

// teardown cleans up after the read loop for generation gen exits. A Close
// that already bumped the generation has done the cleanup itself.
func (b *Bridge) teardown(gen int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		return
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	b.state = StateDisconnected
}
