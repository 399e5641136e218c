// Package tools implements the domain handlers behind every catalog
// operation: profile upkeep, decision and plan logging, reminders, advisory
// lookups backed by the agronomy package, community escalation and the social
// messaging operations.
//
// NewRegistry wires every handler against an injected store and the
// replaceable weather/market providers, and fails fast if the handler set
// drifts from the catalog.
package tools
