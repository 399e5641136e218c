package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/internal/util"
)

// FuncHandler adapts a plain Go function with a typed argument struct into a
// Handler.
//
// Responsibilities:
//   - Holds the lightweight JSON-Schema-like parameter specification from the
//     catalog declaration
//   - Validates the raw argument object against that schema before execution
//   - Decodes the arguments into the function's typed struct A, so handler
//     bodies never touch map[string]any payloads
//   - Normalizes error handling so callers receive *HandlerError with
//     consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch or undecodable JSON
//     EXECUTION_ERROR   -> underlying function returned an error
//     (custom codes preserved if the function returns *HandlerError directly)
//
// A FuncHandler has no internal mutable state after construction and is safe
// for concurrent use.
type FuncHandler[A any] struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, ownerID string, args A) (core.Result, error)
}

// NewFunc constructs a FuncHandler from an explicit schema and function.
//
// Example:
//
//	h := tool.NewFunc("reminder_set", "Sets farming task reminders",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "task":      map[string]any{"type": "string"},
//	      "date_time": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"task", "date_time"},
//	  },
//	  func(ctx context.Context, ownerID string, args reminderSetArgs) (core.Result, error) {
//	    ...
//	  },
//	)
func NewFunc[A any](
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, ownerID string, args A) (core.Result, error),
) *FuncHandler[A] {
	return &FuncHandler[A]{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique operation name used in catalog declarations and
// dispatch routing.
func (h *FuncHandler[A]) Name() string { return h.name }

// Description returns the short natural language description exposed to the
// model.
func (h *FuncHandler[A]) Description() string { return h.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (h *FuncHandler[A]) Parameters() map[string]any { return h.parameters }

// Call validates the raw arguments against the declared schema, decodes them
// into the typed struct and invokes the underlying function. Validation or
// execution failures are wrapped (or passed through) as *HandlerError for
// uniform downstream handling.
func (h *FuncHandler[A]) Call(ctx context.Context, ownerID string, raw json.RawMessage) (core.Result, error) {
	argMap := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &argMap); err != nil {
			return core.Result{}, &HandlerError{
				Tool:    h.name,
				Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
				Code:    CodeValidation,
			}
		}
	}

	if err := util.ValidateParameters(argMap, h.parameters); err != nil {
		return core.Result{}, &HandlerError{
			Tool:    h.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	var args A
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return core.Result{}, &HandlerError{
				Tool:    h.name,
				Message: fmt.Sprintf("failed to decode arguments: %v", err),
				Code:    CodeValidation,
			}
		}
	}

	result, err := h.fn(ctx, ownerID, args)
	if err != nil {
		if handlerErr, ok := err.(*HandlerError); ok {
			return core.Result{}, handlerErr
		}
		return core.Result{}, &HandlerError{
			Tool:    h.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	return result, nil
}
