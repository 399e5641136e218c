// Package agriguru provides a high-level façade over the session core:
// the operation catalog, the handler registry, the sequential dispatcher,
// the live channel bridge and the background notifiers. Most applications
// interact with this package by:
//  1. Creating a Session via New() (optionally overriding the store, the
//     providers and the logger)
//  2. Calling Start to open the live channel and the background components
//  3. Calling Stop on shutdown
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable store and a structured logger.
package agriguru

import (
	"context"
	"fmt"
	"time"

	"github.com/agriguru/agriguru/config"
	"github.com/agriguru/agriguru/dispatch"
	"github.com/agriguru/agriguru/live"
	"github.com/agriguru/agriguru/logging"
	"github.com/agriguru/agriguru/notify"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tools"
)

// DefaultSystemPrompt is sent at setup when the config carries none.
const DefaultSystemPrompt = "You are Agriguru, a friendly farming assistant. " +
	"Help the farmer with crop planning, field work, weather, market prices " +
	"and reminders. Use the provided tools for every data lookup or record " +
	"change instead of guessing. Keep answers short and practical."

// Options configures a Session.
type Options struct {
	// Config carries model, voice, endpoint and scheduler settings. Defaults
	// to config.DefaultConfig().
	Config *config.Config

	// Store defaults to an in-memory implementation.
	Store store.Store

	// Weather and Market override the static providers.
	Weather tools.WeatherProvider
	Market  tools.MarketProvider

	// Logger defaults to the NoOp logger.
	Logger logging.Logger

	// Dialer overrides the live channel transport, for tests.
	Dialer live.Dialer

	// CallTimeout bounds each tool call.
	CallTimeout time.Duration
}

// Session aggregates everything one user's conversation needs.
type Session struct {
	ownerID   string
	store     store.Store
	bridge    *live.Bridge
	scheduler *notify.ReminderScheduler
	listener  *notify.MessageListener
	logger    logging.Logger
}

// New wires a complete session for the given owner. Any unset collaborator is
// initialized with its default.
func New(ownerID string, optFns ...func(o *Options)) (*Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("agriguru: owner id is required")
	}

	opts := Options{
		Config: config.DefaultConfig(),
		Store:  store.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry, err := tools.NewRegistry(tools.Config{
		Store:   opts.Store,
		Weather: opts.Weather,
		Market:  opts.Market,
		Logger:  opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	dispatcher, err := dispatch.New(dispatch.Config{
		Registry:    registry,
		Logger:      opts.Logger,
		OwnerID:     ownerID,
		CallTimeout: opts.CallTimeout,
	})
	if err != nil {
		return nil, err
	}

	systemPrompt := opts.Config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	bridge, err := live.NewBridge(live.Config{
		Endpoint:     opts.Config.Endpoint,
		Model:        opts.Config.Model,
		Voice:        opts.Config.Voice,
		Modality:     opts.Config.Modality,
		SystemPrompt: systemPrompt,
		Dispatcher:   dispatcher,
		Logger:       opts.Logger,
		Dialer:       opts.Dialer,
	})
	if err != nil {
		return nil, err
	}

	scheduler, err := notify.NewReminderScheduler(notify.SchedulerConfig{
		Store:       opts.Store,
		Announcer:   bridge,
		Logger:      opts.Logger,
		OwnerID:     ownerID,
		CheckPeriod: opts.Config.ReminderCheckPeriod,
	})
	if err != nil {
		return nil, err
	}

	listener, err := notify.NewMessageListener(notify.ListenerConfig{
		Store:     opts.Store,
		Announcer: bridge,
		Logger:    opts.Logger,
		OwnerID:   ownerID,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		ownerID:   ownerID,
		store:     opts.Store,
		bridge:    bridge,
		scheduler: scheduler,
		listener:  listener,
		logger:    opts.Logger,
	}, nil
}

// Start opens the live channel and starts the background components. On any
// failure everything already started is stopped again.
func (s *Session) Start(ctx context.Context) error {
	if err := s.bridge.Connect(ctx); err != nil {
		return err
	}
	if err := s.listener.Start(ctx); err != nil {
		s.bridge.Close()
		return err
	}
	if err := s.scheduler.Start(); err != nil {
		s.listener.Stop()
		s.bridge.Close()
		return err
	}
	s.logger.Info("session started", "owner_id", s.ownerID)
	return nil
}

// Stop shuts the background components down and closes the live channel.
func (s *Session) Stop() error {
	s.scheduler.Stop()
	s.listener.Stop()
	err := s.bridge.Close()
	s.logger.Info("session stopped", "owner_id", s.ownerID)
	return err
}

// Bridge exposes the live channel, mainly so hosts can observe its state.
func (s *Session) Bridge() *live.Bridge { return s.bridge }

// Store exposes the session store for host-side inspection and seeding.
func (s *Session) Store() store.Store { return s.store }
