package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tool"
)

// Accepted layouts for spoken reminder times, most specific first.
var reminderTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseReminderTime(s string) (time.Time, error) {
	for _, layout := range reminderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q", s)
}

type reminderSetArgs struct {
	Task     string `json:"task"`
	DateTime string `json:"date_time"`
}

// reminderSetHandler appends a new incomplete reminder for the owner.
func (d *deps) reminderSetHandler() tool.Handler {
	decl := catalog.MustGet("reminder_set")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args reminderSetArgs) (core.Result, error) {
			dueAt, err := parseReminderTime(args.DateTime)
			if err != nil {
				return core.Result{}, tool.NewHandlerError(decl.Name, err.Error(), tool.CodeValidation)
			}
			reminder := core.Reminder{
				ID:        core.NewID(),
				Task:      args.Task,
				DueAt:     dueAt,
				Completed: false,
				FarmerID:  ownerID,
				CreatedAt: d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionReminders, reminder); err != nil {
				return core.Result{}, err
			}
			return core.TextResult(fmt.Sprintf("Reminder set for %s on %s", args.Task, args.DateTime)), nil
		})
}

type getRemindersArgs struct {
	DaysAhead float64 `json:"days_ahead"`
}

// getRemindersHandler lists the owner's incomplete reminders due within the
// requested window (default 7 days), soonest first.
func (d *deps) getRemindersHandler() tool.Handler {
	decl := catalog.MustGet("get_reminders")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args getRemindersArgs) (core.Result, error) {
			days := int(args.DaysAhead)
			if days <= 0 {
				days = 7
			}
			until := d.now().AddDate(0, 0, days)

			docs, err := d.store.Query(ctx, core.CollectionReminders, store.Query{
				Predicates: []store.Predicate{
					store.Where("farmer_id", store.OpEqual, ownerID),
					store.Where("date_time", store.OpLessOrEqual, until),
					store.Where("is_completed", store.OpEqual, false),
				},
				OrderBy: "date_time",
			})
			if err != nil {
				return core.Result{}, err
			}

			reminders := make([]core.Reminder, 0, len(docs))
			for _, doc := range docs {
				var r core.Reminder
				if err := doc.Decode(&r); err != nil {
					return core.Result{}, err
				}
				r.ID = doc.ID
				reminders = append(reminders, r)
			}
			return core.ObjectResult(map[string]any{"reminders": reminders}), nil
		})
}
