package tools

import (
	"fmt"
	"time"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/logging"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tool"
)

// Config carries the collaborators every handler group may need. Store is
// required; everything else has a working default.
type Config struct {
	Store   store.Store
	Weather WeatherProvider
	Market  MarketProvider
	Logger  logging.Logger
	Now     func() time.Time
}

// deps is the resolved collaborator set shared by all handler constructors.
type deps struct {
	store   store.Store
	weather WeatherProvider
	market  MarketProvider
	logger  logging.Logger
	now     func() time.Time
}

// NewRegistry builds the complete handler set for one user session and
// verifies it against the catalog. A catalog/handler mismatch is a wiring
// bug, so it fails here rather than surfacing later as not-implemented
// responses mid-conversation.
func NewRegistry(cfg Config) (*tool.Registry, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("tools: store is required")
	}
	d := &deps{
		store:   cfg.Store,
		weather: cfg.Weather,
		market:  cfg.Market,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if d.weather == nil {
		d.weather = StaticWeather{}
	}
	if d.market == nil {
		d.market = StaticMarket{}
	}
	if d.logger == nil {
		d.logger = logging.NoOpLogger{}
	}
	if d.now == nil {
		d.now = time.Now
	}

	reg := tool.NewRegistry()
	handlers := []tool.Handler{
		d.createProfileHandler(),
		d.updateProfileHandler(),
		d.personalizedAdviceHandler(),
		d.recordDecisionHandler(),
		d.weeklyPlanHandler(),
		d.compareCropsHandler(),
		d.reminderSetHandler(),
		d.getRemindersHandler(),
		d.weatherForecastHandler(),
		d.cropAdviceHandler(),
		d.soilHealthHandler(),
		d.diseaseDiagnosisHandler(),
		d.marketPriceHandler(),
		d.govtSchemeHandler(),
		d.waterNeedHandler(),
		d.harvestPredictionHandler(),
		d.expertConnectHandler(),
		d.communityQueryHandler(),
		d.farmerAlertHandler(),
		d.sendMessageHandler(),
		d.findUsersHandler(),
		d.connectUserHandler(),
		d.addSymptomsHandler(),
		d.speakTextHandler(),
		d.readMessageHandler(),
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return nil, err
		}
	}

	if err := catalog.Verify(reg.Names()); err != nil {
		return nil, err
	}
	return reg, nil
}
