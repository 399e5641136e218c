package testutil

import (
	"time"

	"github.com/agriguru/agriguru/core"
)

// ProfileBuilder constructs farmer profiles with fluent chaining.
type ProfileBuilder struct {
	p core.Profile
}

// NewProfileBuilder creates a builder seeded with a plausible Kerala rice
// farmer so tests only set the fields they care about.
func NewProfileBuilder(name string) *ProfileBuilder {
	return &ProfileBuilder{p: core.Profile{
		Name:            name,
		Age:             45,
		Place:           "Palakkad",
		District:        "Palakkad",
		LandSize:        2,
		SoilType:        "clay",
		CropsGrown:      []string{"rice"},
		ExperienceYears: 15,
	}}
}

// Place sets the place and district (chainable).
func (b *ProfileBuilder) Place(place, district string) *ProfileBuilder {
	b.p.Place = place
	b.p.District = district
	return b
}

// Soil sets the soil type (chainable).
func (b *ProfileBuilder) Soil(soil string) *ProfileBuilder {
	b.p.SoilType = soil
	return b
}

// Crops sets the crops grown (chainable).
func (b *ProfileBuilder) Crops(crops ...string) *ProfileBuilder {
	b.p.CropsGrown = crops
	return b
}

// Build returns the assembled profile.
func (b *ProfileBuilder) Build() core.Profile { return b.p }

// ReminderBuilder constructs reminders with fluent chaining.
type ReminderBuilder struct {
	r core.Reminder
}

// NewReminderBuilder creates a builder for an incomplete reminder due at the
// given time.
func NewReminderBuilder(task string, dueAt time.Time) *ReminderBuilder {
	return &ReminderBuilder{r: core.Reminder{
		ID:        core.NewID(),
		Task:      task,
		DueAt:     dueAt,
		CreatedAt: dueAt.Add(-24 * time.Hour),
	}}
}

// Owner sets the farmer id (chainable).
func (b *ReminderBuilder) Owner(farmerID string) *ReminderBuilder {
	b.r.FarmerID = farmerID
	return b
}

// Completed marks the reminder complete (chainable).
func (b *ReminderBuilder) Completed() *ReminderBuilder {
	b.r.Completed = true
	return b
}

// Build returns the assembled reminder.
func (b *ReminderBuilder) Build() core.Reminder { return b.r }
