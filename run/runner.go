package run

import (
	"context"
	"time"

	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/logging"
	"github.com/inferloop/inferloop/model"
	"github.com/inferloop/inferloop/tool"
)

// Config defines tuning parameters for orchestration behavior.
type Config struct {
	// MaxIterations caps the number of model-call cycles per invocation
	// unless the tool strategy overrides it. Zero means DefaultConfig's
	// value.
	MaxIterations int

	// EventBufferSize sets the stream event channel buffer size. Larger
	// buffers reduce producer blocking but increase memory usage.
	EventBufferSize int

	// MaxParallelTools limits concurrent tool executions within one cycle.
	// Zero or negative means one goroutine per call.
	MaxParallelTools int
}

// DefaultConfig provides the baseline configuration values.
var DefaultConfig = Config{
	MaxIterations:   10,
	EventBufferSize: 64,
}

// Options configure a Runner via the functional options pattern.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// Tools available to the model. Duplicate names are rejected.
	Tools []tool.Tool

	// Strategy bundles the tool-use hooks and limits.
	Strategy tool.Strategy

	// System is the system prompt sent with every model call.
	System string

	// Params are generation parameters passed through to the provider.
	Params *model.Params

	// Structure requests structured output matching the given JSON schema.
	Structure map[string]any

	// ModelConfig is provider pass-through configuration and extra headers.
	ModelConfig model.Config

	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Runner drives generate/stream invocations against one bound model. A
// Runner is immutable after construction and safe for concurrent use; every
// invocation owns its own message list, usage records and execution log.
type Runner struct {
	model     model.Model
	registry  *tool.Registry
	strategy  tool.Strategy
	config    Config
	system    string
	params    *model.Params
	structure map[string]any
	modelCfg  model.Config
	logger    logging.Logger
	exec      *executor
}

// New creates a Runner bound to m. It fails when tool registration fails
// (duplicate or empty names).
func New(m model.Model, optFns ...func(o *Options)) (*Runner, error) {
	opts := Options{Config: DefaultConfig}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.MaxIterations <= 0 {
		opts.Config.MaxIterations = DefaultConfig.MaxIterations
	}
	if opts.Config.EventBufferSize <= 0 {
		opts.Config.EventBufferSize = DefaultConfig.EventBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, err
	}

	return &Runner{
		model:     m,
		registry:  registry,
		strategy:  opts.Strategy,
		config:    opts.Config,
		system:    opts.System,
		params:    opts.Params,
		structure: opts.Structure,
		modelCfg:  opts.ModelConfig,
		logger:    opts.Logger,
		exec: &executor{
			registry:    registry,
			strategy:    opts.Strategy,
			logger:      opts.Logger,
			maxParallel: opts.Config.MaxParallelTools,
		},
	}, nil
}

// maxIterations resolves the effective iteration ceiling for an invocation.
func (r *Runner) maxIterations() int {
	if r.strategy.MaxIterations > 0 {
		return r.strategy.MaxIterations
	}
	return r.config.MaxIterations
}

// validate runs the capability gate and media validator once per invocation,
// before any model call.
func (r *Runner) validate(streaming bool, msgs []core.Message) error {
	if err := checkCapabilities(r.model, streaming, r.registry.Len() > 0, r.structure != nil); err != nil {
		return err
	}
	return checkMedia(r.model, msgs)
}

// runState is the mutable state of one invocation: the running message
// list, per-cycle usage records, the execution log, the cycle counter and
// the captured structured payload. Exclusively owned by the invocation that
// created it.
type runState struct {
	messages   []core.Message
	historyLen int
	usages     []core.TokenUsage
	log        executionLog
	cycles     int
	data       map[string]any
}

func newRunState(history, newMessages []core.Message) *runState {
	msgs := make([]core.Message, 0, len(history)+len(newMessages))
	msgs = append(msgs, history...)
	msgs = append(msgs, newMessages...)
	return &runState{messages: msgs, historyLen: len(history)}
}

func (st *runState) appendResponse(resp *model.Response) {
	st.messages = append(st.messages, resp.Message)
	st.usages = append(st.usages, resp.Usage)
}

// finish aggregates usage, slices off the seeded history and assembles the
// Turn. The structured payload is surfaced only when a structure schema was
// originally requested.
func (st *runState) finish(structureRequested bool) (*core.Turn, error) {
	data := st.data
	if !structureRequested {
		data = nil
	}
	return core.NewTurn(
		st.messages[st.historyLen:],
		st.log.snapshot(),
		core.AggregateUsage(st.usages),
		st.cycles,
		data,
	)
}

func (r *Runner) request(st *runState) model.Request {
	return model.Request{
		Messages:  st.messages,
		System:    r.system,
		Params:    r.params,
		Tools:     r.toolDefinitions(),
		Structure: r.structure,
		Config:    r.modelCfg,
	}
}

func (r *Runner) toolDefinitions() []model.ToolDefinition {
	tools := r.registry.Tools()
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}

// Generate is the blocking control loop: call model, execute tools if
// requested, repeat until the model stops requesting tools or the iteration
// ceiling is hit. history is the prior conversation; only messages added
// during this call end up in the Turn.
func (r *Runner) Generate(ctx context.Context, history []core.Message, newMessages ...core.Message) (*core.Turn, error) {
	all := make([]core.Message, 0, len(history)+len(newMessages))
	all = append(all, history...)
	all = append(all, newMessages...)

	if err := r.validate(false, all); err != nil {
		return nil, err
	}

	st := newRunState(history, newMessages)
	maxIter := r.maxIterations()

	for {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}

		st.cycles++
		callStart := time.Now()
		resp, err := r.model.Complete(ctx, r.request(st))
		if err != nil {
			return nil, err
		}
		r.logger.Debug(
			"run.model.call",
			"cycle", st.cycles,
			"provider", r.model.Info().Provider,
			"duration_ms", time.Since(callStart).Milliseconds(),
		)

		st.appendResponse(resp)

		// Some models drive structured output through the tool-call
		// machinery; such calls must not be executed as real tools.
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

			results, err := r.exec.execute(ctx, resp.Message, &st.log, nil)
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
