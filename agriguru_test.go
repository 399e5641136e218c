package agriguru

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguru/agriguru/config"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/live"
)

// stubConn acknowledges setup and then blocks reads until closed.
type stubConn struct {
	inbound chan []byte
	closed  chan struct{}
}

func newStubConn() *stubConn {
	c := &stubConn{inbound: make(chan []byte, 1), closed: make(chan struct{})}
	c.inbound <- []byte(`{"setupComplete":{}}`)
	return c
}

func (c *stubConn) ReadJSON(v any) error {
	select {
	case data := <-c.inbound:
		return json.Unmarshal(data, v)
	case <-c.closed:
		return errors.New("use of closed connection")
	}
}

func (c *stubConn) WriteJSON(any) error { return nil }

func (c *stubConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func TestNew_RequiresOwner(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestSession_StartStop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ReminderCheckPeriod = time.Hour // keep the cron quiet during the test

	s, err := New("farmer-1", func(o *Options) {
		o.Config = cfg
		o.Dialer = func(context.Context, string) (live.Conn, error) {
			return newStubConn(), nil
		}
	})
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, live.StateConnected, s.Bridge().State())

	// The listener is live: an incoming message is announced over the bridge.
	_, err = s.Store().Append(context.Background(), core.CollectionMessages, core.Message{
		SenderID:    "farmer-2",
		RecipientID: "farmer-1",
		Content:     "hello",
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	assert.Equal(t, live.StateDisconnected, s.Bridge().State())
}

func TestSession_StartFailsWhenDialFails(t *testing.T) {
	s, err := New("farmer-1", func(o *Options) {
		o.Dialer = func(context.Context, string) (live.Conn, error) {
			return nil, errors.New("endpoint unreachable")
		}
	})
	require.NoError(t, err)

	err = s.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, live.StateDisconnected, s.Bridge().State())
}
