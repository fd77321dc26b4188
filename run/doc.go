// Package run implements the inference orchestration core: the blocking
// Generate loop and the streaming Stream loop that drive repeated model
// calls, dispatch tool executions concurrently, accumulate usage and stream
// events, and assemble the final Turn.
//
// One Runner may serve many invocations; all mutable state (message list,
// execution log, usage records) is owned by a single invocation and never
// shared across them. Within an invocation the control loop is sequential:
// cycles never overlap, only the tool calls of one cycle run concurrently
// with each other.
package run
