package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/logging"
	"github.com/agriguru/agriguru/store"
)

// ListenerConfig configures a MessageListener.
type ListenerConfig struct {
	Store     store.Store
	Announcer Announcer
	Logger    logging.Logger
	OwnerID   string
}

// MessageListener watches the message collection for new messages addressed
// to the owner and announces each one. Messages that existed before Start are
// never announced; the store subscription only delivers post-subscription
// additions.
type MessageListener struct {
	store     store.Store
	announcer Announcer
	logger    logging.Logger
	ownerID   string

	mu      sync.Mutex
	sub     store.Subscription
	history []core.Message
}

// NewMessageListener constructs a stopped listener.
func NewMessageListener(cfg ListenerConfig) (*MessageListener, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("notify: store is required")
	}
	if cfg.Announcer == nil {
		return nil, fmt.Errorf("notify: announcer is required")
	}
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("notify: owner id is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &MessageListener{
		store:     cfg.Store,
		announcer: cfg.Announcer,
		logger:    logger,
		ownerID:   cfg.OwnerID,
	}, nil
}

// Start subscribes to incoming messages. Starting a started listener is an
// error.
func (l *MessageListener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub != nil {
		return fmt.Errorf("notify: listener already started")
	}

	sub, err := l.store.Subscribe(ctx, core.CollectionMessages, store.Query{
		Predicates: []store.Predicate{
			store.Where("recipientId", store.OpEqual, l.ownerID),
		},
		OrderBy:    "timestamp",
		Descending: true,
		Limit:      1,
	}, l.onMessage)
	if err != nil {
		return fmt.Errorf("notify: subscribe messages: %w", err)
	}
	l.sub = sub
	l.logger.Info("message listener started")
	return nil
}

// Stop cancels the subscription. Safe to call on every exit path.
func (l *MessageListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub == nil {
		return
	}
	l.sub.Cancel()
	l.sub = nil
	l.logger.Info("message listener stopped")
}

// History returns a copy of the messages seen since Start.
func (l *MessageListener) History() []core.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Message, len(l.history))
	copy(out, l.history)
	return out
}

func (l *MessageListener) onMessage(doc store.Doc) {
	var msg core.Message
	if err := doc.Decode(&msg); err != nil {
		l.logger.Error("incoming message decode failed", "id", doc.ID, "error", err.Error())
		return
	}
	if msg.IsAIMessage {
		return
	}

	l.mu.Lock()
	l.history = append(l.history, msg)
	l.mu.Unlock()

	text := fmt.Sprintf("You have a new message from %s: %s", msg.SenderID, msg.Content)
	if err := l.announcer.Announce(text); err != nil {
		// Channel down; the message stays in history and the conversation
		// can surface it through read_message later.
		l.logger.Warn("message announcement failed", "id", doc.ID, "error", err.Error())
	}
}
