package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ToolCallRequest is one function call taken from an inbound live-session
// batch. Args holds the raw JSON argument object; handlers decode it into
// their own typed argument structs.
type ToolCallRequest struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ToolCallResponse is the outcome of exactly one ToolCallRequest. ID and Name
// always echo the originating request so the session can correlate them, even
// when the handler failed.
type ToolCallResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Response Result `json:"response"`
}

// Result is the payload of a tool response in the live-session wire shape:
// either a plain string or a structured object, never both.
type Result struct {
	Text   string `json:"string_value,omitempty"`
	Object any    `json:"object_value,omitempty"`
}

// TextResult wraps a plain string outcome.
func TextResult(s string) Result { return Result{Text: s} }

// ObjectResult wraps a structured outcome.
func ObjectResult(v any) Result { return Result{Object: v} }

// ErrorResult embeds a handler failure as a normal result object so the batch
// stays fully correlated instead of failing at the channel level.
func ErrorResult(msg string) Result {
	return Result{Object: map[string]any{"error": msg}}
}

// NewID generates a unique identifier for records created by the core.
func NewID() string { return uuid.NewString() }
