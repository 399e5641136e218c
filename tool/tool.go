// Package tool implements the operation handler subsystem: the Handler
// contract bound to one catalog operation name, a generic adapter that turns
// a plain Go function with a typed argument struct into a Handler, and the
// Registry the dispatcher resolves names against.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/internal/util"
)

// Handler is the unit of domain logic bound to one operation name.
//
// Handlers receive the owner id of the session and the raw JSON argument
// object from the live channel. They may read from and write to the injected
// store, but should fail before or after a single atomic store mutation;
// the dispatcher does not roll back partial work.
type Handler interface {
	// Name returns the unique operation identifier (snake_case).
	Name() string

	// Description returns a human-readable description of what this
	// operation does, advertised to the model at session setup.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the operation. Errors are converted to error-shaped
	// responses at the dispatcher boundary; they never abort the batch.
	Call(ctx context.Context, ownerID string, args json.RawMessage) (core.Result, error)
}

// ValidationError represents parameter validation errors with detailed
// information.
type ValidationError = util.ValidationError

// HandlerError represents errors that occur during operation execution.
type HandlerError struct {
	Tool    string `json:"tool"`              // Name of the operation that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used by HandlerError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

func (e *HandlerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("handler error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("handler error in %s: %s", e.Tool, e.Message)
}

// NewHandlerError creates a HandlerError with the specified details.
func NewHandlerError(tool, message, code string) *HandlerError {
	return &HandlerError{Tool: tool, Message: message, Code: code}
}

// Registry maps operation names to their handlers. It is populated once at
// session start and immutable afterwards.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler, rejecting duplicate names.
func (r *Registry) Register(h Handler) error {
	if _, exists := r.handlers[h.Name()]; exists {
		return fmt.Errorf("handler %q registered twice", h.Name())
	}
	r.handlers[h.Name()] = h
	return nil
}

// Get resolves a handler by operation name.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
