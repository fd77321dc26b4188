package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/logging"
	"github.com/inferloop/inferloop/tool"
)

// executionLog is the shared, per-invocation audit log of dispatched tool
// calls. Worker goroutines of one batch append concurrently, so access is
// serialized here; the log never crosses invocation boundaries.
type executionLog struct {
	mu      sync.Mutex
	records []core.ToolExecution
}

func (l *executionLog) append(rec core.ToolExecution) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

func (l *executionLog) snapshot() []core.ToolExecution {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.ToolExecution(nil), l.records...)
}

// executor dispatches the tool-call batch of one assistant message. Calls
// run concurrently (bounded by maxParallel), results come back in request
// order. Failures of any pipeline step are converted into failed results;
// only approval gate errors escape.
type executor struct {
	registry    *tool.Registry
	strategy    tool.Strategy
	logger      logging.Logger
	maxParallel int
}

// execute returns exactly one result per tool call in msg, in request order.
// emit, when non-nil, receives a start and an end event per call.
func (e *executor) execute(
	ctx context.Context,
	msg core.Message,
	log *executionLog,
	emit func(core.StreamEvent),
) ([]core.ToolResult, error) {
	calls := msg.ToolCalls
	n := len(calls)
	if n == 0 {
		return nil, nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		res, err := e.executeOne(ctx, 0, calls[0], log, emit)
		if err != nil {
			return nil, err
		}
		return []core.ToolResult{res}, nil
	}

	maxPar := e.maxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	results := make([]core.ToolResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, call core.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx], errs[idx] = e.executeOne(ctx, idx, call, log, emit)
		}(i, calls[i])
	}
	wg.Wait()

	e.logger.Debug(
		"run.tools.batch.complete",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	// Approval gate failures abort the whole batch; they must not be
	// downgraded to failed results.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// executeOne runs the per-call pipeline: lookup, start event, observation
// hook, before-call decision, approval gate, tool run, after-call override,
// audit record and end event. The first failing step short-circuits to a
// failed result recorded with the arguments effective at that point.
func (e *executor) executeOne(
	ctx context.Context,
	idx int,
	call core.ToolCall,
	log *executionLog,
	emit func(core.StreamEvent),
) (core.ToolResult, error) {
	start := time.Now()

	emitEvent(emit, core.NewToolExecutionStartEvent(call.ID, call.Name, idx))

	args := call.Arguments
	var approved *bool

	fail := func(message string) core.ToolResult {
		log.append(core.ToolExecution{
			ToolName:   call.Name,
			ToolCallID: call.ID,
			Arguments:  args,
			Result:     message,
			IsError:    true,
			Duration:   time.Since(start),
			Approved:   approved,
		})
		emitEvent(emit, core.NewToolExecutionEndEvent(call.ID, call.Name, idx, message, true))
		return core.ToolResult{ToolCallID: call.ID, Result: message, IsError: true}
	}

	impl, ok := e.registry.Lookup(call.Name)
	if !ok {
		// Lookup misses bypass every hook but are still audited like any
		// other failure.
		e.logger.Warn("run.tool.missing", "tool", call.Name, "tool_call_id", call.ID)
		return fail(fmt.Sprintf("tool %q not found", call.Name)), nil
	}

	if hook := e.strategy.OnToolCall; hook != nil {
		hook(ctx, call.Name, args)
	}

	if hook := e.strategy.OnBeforeCall; hook != nil {
		decision, err := hook(ctx, call.Name, args)
		if err != nil {
			return fail(fmt.Sprintf("before-call hook failed: %v", err)), nil
		}
		if decision.Skipped() {
			return fail(fmt.Sprintf("tool %q call skipped", call.Name)), nil
		}
		if params, ok := decision.Params(); ok {
			args = params
		}
	}

	if gate, ok := impl.(tool.Approver); ok && requiresApproval(impl) {
		verdict, err := gate.Approve(ctx, args)
		if err != nil {
			return core.ToolResult{}, err
		}
		approved = &verdict
		if !verdict {
			return fail(fmt.Sprintf("tool %q call denied", call.Name)), nil
		}
	}

	result, err := e.call(ctx, impl, args)
	if err != nil {
		if hook := e.strategy.OnError; hook != nil {
			hook(ctx, call.Name, args, err)
		}
		e.logger.Info(
			"run.tool.executed",
			"tool", call.Name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", true,
		)
		return fail(err.Error()), nil
	}

	if hook := e.strategy.OnAfterCall; hook != nil {
		override, err := hook(ctx, call.Name, args, result)
		if err != nil {
			return fail(fmt.Sprintf("after-call hook failed: %v", err)), nil
		}
		if override != nil {
			result = override.Result
		}
	}

	duration := time.Since(start)
	log.append(core.ToolExecution{
		ToolName:   call.Name,
		ToolCallID: call.ID,
		Arguments:  args,
		Result:     result,
		IsError:    false,
		Duration:   duration,
		Approved:   approved,
	})
	emitEvent(emit, core.NewToolExecutionEndEvent(call.ID, call.Name, idx, result, false))

	e.logger.Info(
		"run.tool.executed",
		"tool", call.Name,
		"duration_ms", duration.Milliseconds(),
		"error", false,
	)

	return core.ToolResult{ToolCallID: call.ID, Result: result, IsError: false}, nil
}

// call invokes the tool with panic safety.
func (e *executor) call(ctx context.Context, impl tool.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panic: %v", r)
			e.logger.Error("run.tool.panic", "tool", impl.Name(), "recover", r)
		}
	}()
	return impl.Call(ctx, args)
}

// requiresApproval reports whether a tool declares an active approval gate.
// FunctionTool always carries the Approve method, so it additionally exposes
// RequiresApproval to distinguish a configured gate from a structural one.
func requiresApproval(t tool.Tool) bool {
	if ra, ok := t.(interface{ RequiresApproval() bool }); ok {
		return ra.RequiresApproval()
	}
	_, ok := t.(tool.Approver)
	return ok
}

func emitEvent(emit func(core.StreamEvent), ev core.StreamEvent) {
	if emit != nil {
		emit(ev)
	}
}
