package tools

import (
	"context"
	"fmt"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/tool"
)

type recordDecisionArgs struct {
	Event    string `json:"event"`
	Decision string `json:"decision"`
	Result   string `json:"result"`
	CropName string `json:"crop_name"`
	Season   string `json:"season"`
}

// recordDecisionHandler appends an immutable decision log entry.
func (d *deps) recordDecisionHandler() tool.Handler {
	decl := catalog.MustGet("record_past_decision")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args recordDecisionArgs) (core.Result, error) {
			record := core.DecisionRecord{
				Event:     args.Event,
				Decision:  args.Decision,
				Result:    args.Result,
				CropName:  args.CropName,
				Season:    args.Season,
				FarmerID:  ownerID,
				Timestamp: d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionDecisions, record); err != nil {
				return core.Result{}, err
			}
			return core.TextResult("Decision recorded for future learning."), nil
		})
}

type weeklyPlanArgs struct {
	CurrentCrop     string `json:"current_crop"`
	CropStage       string `json:"crop_stage"`
	WeatherForecast string `json:"weather_forecast"`
}

// weeklyPlanHandler derives a plan from the fixed task template and stores
// it. The plan is read-only afterwards.
func (d *deps) weeklyPlanHandler() tool.Handler {
	decl := catalog.MustGet("generate_weekly_plan")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args weeklyPlanArgs) (core.Result, error) {
			weatherNote := args.WeatherForecast
			if weatherNote == "" {
				weatherNote = "Normal weather expected"
			}
			plan := core.WeeklyPlan{
				FarmerID:    ownerID,
				WeekStart:   d.now(),
				CropStage:   args.CropStage,
				WeatherNote: weatherNote,
				Tasks: []core.PlanTask{
					{
						Task:             fmt.Sprintf("Monitor %s growth", args.CurrentCrop),
						Priority:         "high",
						EstimatedTime:    "2 hours",
						WeatherDependent: false,
					},
					{
						Task:             "Check soil moisture",
						Priority:         "medium",
						EstimatedTime:    "1 hour",
						WeatherDependent: true,
					},
				},
			}
			if _, err := d.store.Append(ctx, core.CollectionWeeklyPlans, plan); err != nil {
				return core.Result{}, err
			}
			return core.ObjectResult(plan), nil
		})
}
