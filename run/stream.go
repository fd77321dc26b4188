package run

import (
	"context"
	"sync"

	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/model"
)

// StreamRun is the dual-mode result of a streaming invocation: an event
// sequence the caller may iterate and a deferred final Turn. The deferred
// outcome settles exactly once — with a Turn, an error, or a
// cancellation-kind error — regardless of whether the caller iterated the
// events, drained them fully, or abandoned them early.
type StreamRun struct {
	events chan core.StreamEvent
	cancel context.CancelFunc

	done      chan struct{}
	once      sync.Once
	drainOnce sync.Once

	turn *core.Turn
	err  error
}

// Events returns the stream event sequence. The channel is closed when the
// invocation terminates. Callers that stop consuming should call Wait (or
// Cancel) so production can finish.
func (s *StreamRun) Events() <-chan core.StreamEvent { return s.events }

// Wait blocks until the deferred outcome settles and returns it. If the
// event sequence is not being consumed, Wait drains it on the caller's
// behalf so completion still occurs; events consumed this way are discarded.
func (s *StreamRun) Wait() (*core.Turn, error) {
	s.drainOnce.Do(func() {
		go func() {
			for range s.events {
			}
		}()
	})
	<-s.done
	return s.turn, s.err
}

// Cancel requests cancellation. It settles the deferred outcome with a
// cancellation-kind error immediately and propagates through every pending
// suspension point. Cancellation is irreversible.
func (s *StreamRun) Cancel() {
	s.cancel()
	s.settle(nil, ErrCancelled)
}

// settle implements the first-writer-wins completion latch.
func (s *StreamRun) settle(turn *core.Turn, err error) {
	s.once.Do(func() {
		s.turn = turn
		s.err = err
		close(s.done)
	})
}

// send forwards one event, honoring cancellation at the suspension point.
func (s *StreamRun) send(ctx context.Context, ev core.StreamEvent) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	case s.events <- ev:
		return nil
	}
}

// Stream runs the same control loop as Generate, but each cycle's model call
// yields an ordered event sequence forwarded to the caller before that
// cycle's final response resolves. Setup failures (capability or media
// mismatch) are reported synchronously; everything later settles the
// deferred outcome.
func (r *Runner) Stream(ctx context.Context, history []core.Message, newMessages ...core.Message) (*StreamRun, error) {
	all := make([]core.Message, 0, len(history)+len(newMessages))
	all = append(all, history...)
	all = append(all, newMessages...)

	if err := r.validate(true, all); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &StreamRun{
		events: make(chan core.StreamEvent, r.config.EventBufferSize),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		var turn *core.Turn
		var err error

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					// Abrupt stop with no pending reason: the safety net
					// below activates cancellation and rejects the outcome.
					r.logger.Error("run.stream.panic", "recover", rec)
					turn, err = nil, nil
				}
			}()
			turn, err = r.streamLoop(runCtx, s, history, newMessages)
		}()

		close(s.events)

		switch {
		case err != nil:
			if IsCancelled(err) {
				s.cancel()
			}
			s.settle(nil, err)
		case turn != nil:
			s.settle(turn, nil)
		default:
			s.cancel()
			s.settle(nil, ErrCancelled)
		}
	}()

	return s, nil
}

// streamLoop drives the per-cycle streaming calls and tool dispatch.
func (r *Runner) streamLoop(ctx context.Context, s *StreamRun, history, newMessages []core.Message) (*core.Turn, error) {
	st := newRunState(history, newMessages)
	maxIter := r.maxIterations()

	for {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}

		st.cycles++
		stream, err := r.model.Stream(ctx, r.request(st))
		if err != nil {
			return nil, err
		}

		resp, err := r.forward(ctx, s, stream)
		if err != nil {
			return nil, err
		}

		st.appendResponse(resp)

		if len(resp.Data) > 0 {
			st.data = resp.Data
			break
		}

		if resp.Message.HasToolCalls() && r.registry.Len() > 0 {
			if st.cycles > maxIter {
				if hook := r.strategy.OnMaxIterations; hook != nil {
					hook(ctx, maxIter)
				}
				return nil, &MaxIterationsError{Limit: maxIter}
			}

			results, err := r.streamTools(ctx, s, st, resp.Message)
			if err != nil {
				return nil, err
			}
			st.messages = append(st.messages, core.NewToolResultMessage(results))
			continue
		}

		break
	}

	return st.finish(r.structure != nil)
}

// forward relays one model call's events to the caller, then resolves the
// per-cycle response. The response only becomes available after the event
// sequence is fully drained.
func (r *Runner) forward(ctx context.Context, s *StreamRun, stream *model.Stream) (*model.Response, error) {
	for ev := range stream.Events {
		if err := s.send(ctx, ev); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ErrCancelled
	case err := <-stream.Errs:
		return nil, err
	case resp := <-stream.Response:
		return resp, nil
	}
}

// streamTools dispatches one cycle's tool batch. Tool execution events are
// buffered while the batch runs and forwarded only after every call has
// settled, preserving per-call ordering but not real-time interleaving.
func (r *Runner) streamTools(ctx context.Context, s *StreamRun, st *runState, msg core.Message) ([]core.ToolResult, error) {
	var mu sync.Mutex
	var buffer []core.StreamEvent
	emit := func(ev core.StreamEvent) {
		mu.Lock()
		defer mu.Unlock()
		buffer = append(buffer, ev)
	}

	results, err := r.exec.execute(ctx, msg, &st.log, emit)
	if err != nil {
		return nil, err
	}

	for _, call := range msg.ToolCalls {
		for _, ev := range buffer {
			if ev.ToolCallID != call.ID {
				continue
			}
			if err := s.send(ctx, ev); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
