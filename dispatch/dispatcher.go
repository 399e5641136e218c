// Package dispatch executes batches of tool calls arriving from the live
// channel against the handler registry and produces one response per call,
// in call order.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/logging"
	"github.com/agriguru/agriguru/tool"
)

// DefaultCallTimeout bounds a single handler invocation. Handlers talking to
// slow providers get cancelled rather than stalling the conversation.
const DefaultCallTimeout = 15 * time.Second

// Config configures a Dispatcher.
type Config struct {
	Registry *tool.Registry
	Logger   logging.Logger

	// OwnerID identifies the session user passed to every handler.
	OwnerID string

	// CallTimeout bounds each individual call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// Dispatcher runs tool call batches sequentially. Sequential execution keeps
// read-after-write ordering inside a batch: a call may depend on the store
// mutation of the call before it.
type Dispatcher struct {
	registry *tool.Registry
	logger   logging.Logger
	ownerID  string
	timeout  time.Duration
}

// New constructs a Dispatcher from the config.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("dispatch: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Dispatcher{
		registry: cfg.Registry,
		logger:   logger,
		ownerID:  cfg.OwnerID,
		timeout:  timeout,
	}, nil
}

// Dispatch executes every call in order and returns exactly one response per
// call, correlated by id and name. Individual failures become error-shaped
// responses; only ctx cancellation aborts the batch early, and even then the
// remaining calls receive cancellation responses so the correlation invariant
// holds.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []core.ToolCallRequest) []core.ToolCallResponse {
	responses := make([]core.ToolCallResponse, 0, len(calls))
	for i, call := range calls {
		if err := ctx.Err(); err != nil {
			for _, remaining := range calls[i:] {
				responses = append(responses, core.ToolCallResponse{
					ID:       remaining.ID,
					Name:     remaining.Name,
					Response: core.ErrorResult(fmt.Sprintf("Function %s cancelled: %v", remaining.Name, err)),
				})
			}
			break
		}
		responses = append(responses, d.dispatchOne(ctx, call))
	}
	return responses
}

func (d *Dispatcher) dispatchOne(ctx context.Context, call core.ToolCallRequest) core.ToolCallResponse {
	handler, ok := d.registry.Get(call.Name)
	if !ok {
		d.logger.Warn("tool call for unknown function", "function", call.Name, "call_id", call.ID)
		return core.ToolCallResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: core.TextResult(fmt.Sprintf("Function %s not implemented yet.", call.Name)),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	var (
		result core.Result
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in %s: %v", call.Name, r)
				d.logger.Error("tool call panicked",
					"function", call.Name,
					"call_id", call.ID,
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		result, err = handler.Call(callCtx, d.ownerID, call.Args)
	}()
	dur := time.Since(start)

	d.logger.Info("tool call executed",
		"function", call.Name,
		"call_id", call.ID,
		"duration_ms", dur.Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		return core.ToolCallResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: core.ErrorResult(fmt.Sprintf("Function %s failed: %v", call.Name, err)),
		}
	}
	return core.ToolCallResponse{ID: call.ID, Name: call.Name, Response: result}
}
