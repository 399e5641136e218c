package dispatch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/internal/testutil"
	"github.com/agriguru/agriguru/tool"
)

func emptySchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

type noArgs struct{}

func newTestRegistry(t *testing.T, handlers ...tool.Handler) *tool.Registry {
	t.Helper()
	reg := tool.NewRegistry()
	for _, h := range handlers {
		require.NoError(t, reg.Register(h))
	}
	return reg
}

func call(id, name string) core.ToolCallRequest {
	return testutil.NewCallBuilder(name).ID(id).Build()
}

func TestDispatch_CorrelatedResponses(t *testing.T) {
	echo := tool.NewFunc("echo", "echoes", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			return core.TextResult("ok"), nil
		})
	d, err := New(Config{Registry: newTestRegistry(t, echo), OwnerID: "farmer-1"})
	require.NoError(t, err)

	calls := []core.ToolCallRequest{call("c-1", "echo"), call("c-2", "echo"), call("c-3", "echo")}
	responses := d.Dispatch(context.Background(), calls)

	require.Len(t, responses, 3)
	for i, resp := range responses {
		assert.Equal(t, calls[i].ID, resp.ID)
		assert.Equal(t, calls[i].Name, resp.Name)
		assert.Equal(t, "ok", resp.Response.Text)
	}
}

func TestDispatch_UnknownOperation(t *testing.T) {
	d, err := New(Config{Registry: newTestRegistry(t), OwnerID: "farmer-1"})
	require.NoError(t, err)

	responses := d.Dispatch(context.Background(), []core.ToolCallRequest{call("c-1", "teleport_crops")})

	require.Len(t, responses, 1)
	assert.Equal(t, "c-1", responses[0].ID)
	assert.Equal(t, "teleport_crops", responses[0].Name)
	assert.Equal(t, "Function teleport_crops not implemented yet.", responses[0].Response.Text)
}

func TestDispatch_FailureDoesNotAbortBatch(t *testing.T) {
	failing := tool.NewFunc("failing", "always fails", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			return core.Result{}, fmt.Errorf("store unavailable")
		})
	ok := tool.NewFunc("healthy", "always succeeds", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			return core.TextResult("done"), nil
		})
	d, err := New(Config{Registry: newTestRegistry(t, failing, ok), OwnerID: "farmer-1"})
	require.NoError(t, err)

	responses := d.Dispatch(context.Background(), []core.ToolCallRequest{
		call("c-1", "failing"),
		call("c-2", "healthy"),
	})

	require.Len(t, responses, 2)
	errObj, ok2 := responses[0].Response.Object.(map[string]any)
	require.True(t, ok2)
	assert.Contains(t, errObj["error"], "store unavailable")
	assert.Equal(t, "done", responses[1].Response.Text)
}

func TestDispatch_PanicRecovered(t *testing.T) {
	panicky := tool.NewFunc("panicky", "panics", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			panic("nil map write")
		})
	after := tool.NewFunc("after", "runs after the panic", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			return core.TextResult("still alive"), nil
		})
	d, err := New(Config{Registry: newTestRegistry(t, panicky, after), OwnerID: "farmer-1"})
	require.NoError(t, err)

	responses := d.Dispatch(context.Background(), []core.ToolCallRequest{
		call("c-1", "panicky"),
		call("c-2", "after"),
	})

	require.Len(t, responses, 2)
	errObj, ok := responses[0].Response.Object.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errObj["error"], "panic")
	assert.Equal(t, "still alive", responses[1].Response.Text)
}

func TestDispatch_PerCallTimeout(t *testing.T) {
	slow := tool.NewFunc("slow", "blocks until cancelled", emptySchema(),
		func(ctx context.Context, _ string, _ noArgs) (core.Result, error) {
			<-ctx.Done()
			return core.Result{}, ctx.Err()
		})
	d, err := New(Config{
		Registry:    newTestRegistry(t, slow),
		OwnerID:     "farmer-1",
		CallTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	responses := d.Dispatch(context.Background(), []core.ToolCallRequest{call("c-1", "slow")})
	elapsed := time.Since(start)

	require.Len(t, responses, 1)
	errObj, ok := responses[0].Response.Object.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errObj["error"], "context deadline exceeded")
	assert.Less(t, elapsed, time.Second)
}

func TestDispatch_CancelledContextFillsRemaining(t *testing.T) {
	echo := tool.NewFunc("echo", "echoes", emptySchema(),
		func(_ context.Context, _ string, _ noArgs) (core.Result, error) {
			return core.TextResult("ok"), nil
		})
	d, err := New(Config{Registry: newTestRegistry(t, echo), OwnerID: "farmer-1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	responses := d.Dispatch(ctx, []core.ToolCallRequest{call("c-1", "echo"), call("c-2", "echo")})

	require.Len(t, responses, 2)
	for i, resp := range responses {
		assert.Equal(t, fmt.Sprintf("c-%d", i+1), resp.ID)
		errObj, ok := resp.Response.Object.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errObj["error"], "cancelled")
	}
}
