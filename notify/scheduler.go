// Package notify runs the background components that push information to the
// user without a model turn asking for it: the reminder scheduler and the
// incoming-message listener. Both speak through an Announcer, normally the
// live bridge.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/logging"
	"github.com/agriguru/agriguru/store"
)

// DefaultCheckPeriod is how often the scheduler polls for due reminders.
const DefaultCheckPeriod = time.Minute

// Announcer pushes proactive text into the conversation. *live.Bridge
// satisfies it; an Announce on a dead channel returns an error and the caller
// retries on the next tick.
type Announcer interface {
	Announce(text string) error
}

// SchedulerConfig configures a ReminderScheduler.
type SchedulerConfig struct {
	Store     store.Store
	Announcer Announcer
	Logger    logging.Logger
	OwnerID   string

	// CheckPeriod overrides DefaultCheckPeriod when positive.
	CheckPeriod time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// ReminderScheduler polls the store for due, incomplete reminders, announces
// each one and marks it complete. Announce-then-mark gives at-least-once
// delivery: a crash between the two repeats the announcement on restart.
type ReminderScheduler struct {
	store     store.Store
	announcer Announcer
	logger    logging.Logger
	ownerID   string
	period    time.Duration
	now       func() time.Time

	cron    *cron.Cron
	tickMu  sync.Mutex // guards against overlapping ticks
	startMu sync.Mutex
	started bool
}

// NewReminderScheduler constructs a stopped scheduler.
func NewReminderScheduler(cfg SchedulerConfig) (*ReminderScheduler, error) {
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
	period := cfg.CheckPeriod
	if period <= 0 {
		period = DefaultCheckPeriod
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ReminderScheduler{
		store:     cfg.Store,
		announcer: cfg.Announcer,
		logger:    logger,
		ownerID:   cfg.OwnerID,
		period:    period,
		now:       now,
	}, nil
}

// Start begins periodic checking. Starting a started scheduler is an error.
func (s *ReminderScheduler) Start() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return fmt.Errorf("notify: scheduler already started")
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.period)
	if _, err := c.AddFunc(spec, func() { s.Tick(context.Background()) }); err != nil {
		return fmt.Errorf("notify: schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.started = true
	s.logger.Info("reminder scheduler started", "period", s.period.String())
	return nil
}

// Stop halts periodic checking and waits for a running tick to finish.
func (s *ReminderScheduler) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.started = false
	s.logger.Info("reminder scheduler stopped")
}

// Tick runs one due-reminder check. If the previous tick is still running the
// call returns immediately; a slow store must not stack checks.
func (s *ReminderScheduler) Tick(ctx context.Context) {
	if !s.tickMu.TryLock() {
		s.logger.Debug("reminder check skipped, previous still running")
		return
	}
	defer s.tickMu.Unlock()

	docs, err := s.store.Query(ctx, core.CollectionReminders, store.Query{
		Predicates: []store.Predicate{
			store.Where("farmer_id", store.OpEqual, s.ownerID),
			store.Where("date_time", store.OpLessOrEqual, s.now()),
			store.Where("is_completed", store.OpEqual, false),
		},
		OrderBy: "date_time",
	})
	if err != nil {
		s.logger.Error("reminder query failed", "error", err.Error())
		return
	}

	for _, doc := range docs {
		var r core.Reminder
		if err := doc.Decode(&r); err != nil {
			s.logger.Error("reminder decode failed", "id", doc.ID, "error", err.Error())
			continue
		}

		text := fmt.Sprintf("Reminder: %s (scheduled for %s)", r.Task, r.DueAt.Format("2006-01-02 15:04"))
		if err := s.announcer.Announce(text); err != nil {
			// Channel down; leave the reminder incomplete for the next tick.
			s.logger.Warn("reminder announcement failed", "id", doc.ID, "error", err.Error())
			continue
		}
		if err := s.store.Patch(ctx, core.CollectionReminders, doc.ID, map[string]any{
			"is_completed": true,
		}); err != nil {
			s.logger.Error("reminder completion patch failed", "id", doc.ID, "error", err.Error())
			continue
		}
		s.logger.Info("reminder delivered", "id", doc.ID, "task", r.Task)
	}
}
