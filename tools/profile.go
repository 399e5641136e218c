package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tool"
)

type createProfileArgs struct {
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	Place           string   `json:"place"`
	District        string   `json:"district"`
	LandSize        float64  `json:"land_size"`
	SoilType        string   `json:"soil_type"`
	CropsGrown      []string `json:"crops_grown"`
	ToolsOwned      []string `json:"tools_owned"`
	ExperienceYears int      `json:"experience_years"`
	PhoneNumber     string   `json:"phone_number"`
}

// createProfileHandler upserts the full profile under the owner id. Repeat
// calls overwrite the previous profile, so the operation is idempotent.
func (d *deps) createProfileHandler() tool.Handler {
	decl := catalog.MustGet("create_farmer_profile")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args createProfileArgs) (core.Result, error) {
			now := d.now()
			profile := core.Profile{
				Name:            args.Name,
				Age:             args.Age,
				Place:           args.Place,
				District:        args.District,
				LandSize:        args.LandSize,
				SoilType:        args.SoilType,
				CropsGrown:      args.CropsGrown,
				ToolsOwned:      args.ToolsOwned,
				ExperienceYears: args.ExperienceYears,
				PhoneNumber:     args.PhoneNumber,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := d.store.Put(ctx, core.CollectionProfiles, ownerID, profile); err != nil {
				return core.Result{}, err
			}
			return core.TextResult("Farmer profile created successfully!"), nil
		})
}

type updateProfileArgs struct {
	DataType string `json:"data_type"`
	Value    string `json:"value"`
}

// updateProfileHandler patches a single profile field and stamps updated_at.
func (d *deps) updateProfileHandler() tool.Handler {
	decl := catalog.MustGet("update_farmer_profile")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args updateProfileArgs) (core.Result, error) {
			err := d.store.Patch(ctx, core.CollectionProfiles, ownerID, map[string]any{
				args.DataType: args.Value,
				"updated_at":  d.now(),
			})
			if errors.Is(err, store.ErrNotFound) {
				return core.Result{}, tool.NewHandlerError(decl.Name,
					"no profile exists for this user yet", tool.CodeNotFound)
			}
			if err != nil {
				return core.Result{}, err
			}
			return core.TextResult(fmt.Sprintf("Profile updated: %s set to %s", args.DataType, args.Value)), nil
		})
}

type adviceArgs struct {
	CurrentCrop     string `json:"current_crop"`
	GrowthStage     string `json:"growth_stage"`
	SpecificConcern string `json:"specific_concern"`
}

// personalizedAdviceHandler reads the profile and derives advice from it. A
// missing profile is a guidance string, not an error.
func (d *deps) personalizedAdviceHandler() tool.Handler {
	decl := catalog.MustGet("get_personalized_advice")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args adviceArgs) (core.Result, error) {
			var profile core.Profile
			err := d.store.Get(ctx, core.CollectionProfiles, ownerID, &profile)
			if errors.Is(err, store.ErrNotFound) {
				return core.TextResult("Please create your farmer profile first to get personalized advice."), nil
			}
			if err != nil {
				return core.Result{}, err
			}

			advice := map[string]any{
				"general_advice": fmt.Sprintf(
					"Based on your %d years of experience with %s, here's personalized advice for your %g acre farm.",
					profile.ExperienceYears, args.CurrentCrop, profile.LandSize),
				"soil_specific": fmt.Sprintf("For %s soil, consider organic amendments.", profile.SoilType),
				"weather_based": "Current weather conditions suggest adjusting irrigation schedule.",
			}
			return core.ObjectResult(advice), nil
		})
}

type compareCropsArgs struct {
	Season   string  `json:"season"`
	LandArea float64 `json:"land_area"`
}

// compareCropsHandler returns the fixed seasonal recommendation table.
func (d *deps) compareCropsHandler() tool.Handler {
	decl := catalog.MustGet("compare_crop_choices")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(_ context.Context, _ string, args compareCropsArgs) (core.Result, error) {
			return core.ObjectResult(map[string]any{
				"season":            args.Season,
				"recommended_crops": []string{"Rice", "Wheat", "Maize"},
				"profit_potential": map[string]string{
					"rice":  "High",
					"wheat": "Medium",
					"maize": "High",
				},
				"suitability_score": map[string]int{
					"rice":  85,
					"wheat": 70,
					"maize": 90,
				},
			}), nil
		})
}
