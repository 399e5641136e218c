// Package testutil provides fluent builders for test fixtures: tool call
// batches, farmer profiles and reminders. Builders keep table-driven tests
// readable by hiding record boilerplate behind chainable setters.
package testutil
