// Package inferloop provides a high-level façade over the orchestration
// core. Most applications interact with this package by:
//  1. Creating a Client via New() around a bound model
//  2. Registering tools and a tool-use strategy
//  3. Invoking Generate (blocking) or Stream (incremental events)
//
// The façade delegates orchestration to run.Runner while keeping setup
// ergonomics concise. Defaults are safe for local development and testing;
// production deployments typically supply a structured logger and a
// configuration file.
package inferloop

import (
	"context"

	"github.com/inferloop/inferloop/config"
	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/logging"
	"github.com/inferloop/inferloop/model"
	"github.com/inferloop/inferloop/run"
	"github.com/inferloop/inferloop/tool"
)

// Options configures a Client instance.
type Options struct {
	// Config contains operational parameters for the orchestration loop.
	Config run.Config

	// Tools available to the model.
	Tools []tool.Tool

	// Strategy bundles tool-use hooks and limits.
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

// FromConfig applies a loaded configuration document to the options.
func FromConfig(cfg *config.Config) func(o *Options) {
	return func(o *Options) {
		o.Config = run.Config{
			MaxIterations:    cfg.Run.MaxIterations,
			EventBufferSize:  cfg.Run.EventBufferSize,
			MaxParallelTools: cfg.Run.MaxParallelTools,
		}
		o.Logger = cfg.Log.Logger()
	}
}

// Client is the high-level façade around one bound model and its tools.
type Client struct {
	runner *run.Runner
}

// New creates a Client bound to m with optional overrides.
func New(m model.Model, optFns ...func(o *Options)) (*Client, error) {
	opts := Options{Config: run.DefaultConfig}
	for _, fn := range optFns {
		fn(&opts)
	}

	runner, err := run.New(m, func(o *run.Options) {
		o.Config = opts.Config
		o.Tools = opts.Tools
		o.Strategy = opts.Strategy
		o.System = opts.System
		o.Params = opts.Params
		o.Structure = opts.Structure
		o.ModelConfig = opts.ModelConfig
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Client{runner: runner}, nil
}

// Generate issues one blocking orchestration invocation and returns the
// assembled Turn.
func (c *Client) Generate(ctx context.Context, history []core.Message, newMessages ...core.Message) (*core.Turn, error) {
	return c.runner.Generate(ctx, history, newMessages...)
}

// Stream issues one streaming orchestration invocation. The returned
// StreamRun exposes the event sequence and the deferred final Turn.
func (c *Client) Stream(ctx context.Context, history []core.Message, newMessages ...core.Message) (*run.StreamRun, error) {
	return c.runner.Stream(ctx, history, newMessages...)
}

// Prompt is a convenience wrapper generating from a single user text
// message with no prior history.
func (c *Client) Prompt(ctx context.Context, text string) (*core.Turn, error) {
	return c.Generate(ctx, nil, core.NewUserTextMessage(text))
}
