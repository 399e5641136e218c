package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/agriguru/agriguru/core"
)

// CallBuilder constructs tool call requests with fluent chaining.
// Example:
//
//	call := NewCallBuilder("reminder_set").Arg("task", "irrigate").Build()
type CallBuilder struct {
	id   string
	name string
	args map[string]any
}

// NewCallBuilder creates a builder for a call to the named operation with a
// deterministic id derived from the name.
func NewCallBuilder(name string) *CallBuilder {
	return &CallBuilder{id: "call-" + name, name: name, args: map[string]any{}}
}

// ID overrides the generated call id (chainable).
func (b *CallBuilder) ID(id string) *CallBuilder {
	b.id = id
	return b
}

// Arg sets one argument field (chainable).
func (b *CallBuilder) Arg(key string, val any) *CallBuilder {
	b.args[key] = val
	return b
}

// Build returns the assembled request. It panics on unmarshalable argument
// values, which in tests is always a fixture bug.
func (b *CallBuilder) Build() core.ToolCallRequest {
	raw, err := json.Marshal(b.args)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal args for %s: %v", b.name, err))
	}
	return core.ToolCallRequest{ID: b.id, Name: b.name, Args: raw}
}
