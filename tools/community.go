package tools

import (
	"context"
	"fmt"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/tool"
)

type expertConnectArgs struct {
	Question        string `json:"question"`
	ExpertiseNeeded string `json:"expertise_needed"`
}

// expertConnectHandler files a pending expert request for later assignment.
func (d *deps) expertConnectHandler() tool.Handler {
	decl := catalog.MustGet("connect_to_agri_expert")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args expertConnectArgs) (core.Result, error) {
			expertise := args.ExpertiseNeeded
			if expertise == "" {
				expertise = "general"
			}
			request := core.ExpertRequest{
				ID:              core.NewID(),
				Question:        args.Question,
				ExpertiseNeeded: expertise,
				FarmerID:        ownerID,
				Status:          "pending",
				CreatedAt:       d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionExpertRequests, request); err != nil {
				return core.Result{}, err
			}
			return core.TextResult(fmt.Sprintf(
				"Your request has been sent to an agricultural expert. You will be contacted shortly for help with %q.",
				args.Question)), nil
		})
}

type communityQueryArgs struct {
	Question string `json:"question"`
	CropType string `json:"crop_type"`
}

// communityQueryHandler posts a question to nearby farmers.
func (d *deps) communityQueryHandler() tool.Handler {
	decl := catalog.MustGet("community_query")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args communityQueryArgs) (core.Result, error) {
			query := core.CommunityQuery{
				Question:  args.Question,
				CropType:  args.CropType,
				FarmerID:  ownerID,
				CreatedAt: d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionCommunityQueries, query); err != nil {
				return core.Result{}, err
			}
			return core.TextResult("Your question has been shared with nearby farmers."), nil
		})
}

type farmerAlertArgs struct {
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// farmerAlertHandler broadcasts a pest or disease warning.
func (d *deps) farmerAlertHandler() tool.Handler {
	decl := catalog.MustGet("send_alert_to_nearby_farmers")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args farmerAlertArgs) (core.Result, error) {
			alert := core.FarmerAlert{
				AlertType:   args.AlertType,
				Severity:    args.Severity,
				Description: args.Description,
				FarmerID:    ownerID,
				CreatedAt:   d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionAlerts, alert); err != nil {
				return core.Result{}, err
			}
			return core.TextResult("Alert sent to nearby farmers."), nil
		})
}
