// Package core defines the shared data model of the orchestration engine:
// messages and their content parts, tool calls and results, token usage
// records, stream events and the terminal Turn artifact.
//
// Everything in this package is plain data. Values are constructed once and
// treated as immutable afterwards; a conversation is an ordered, append-only
// sequence of messages. Message classification is done via the explicit Role
// discriminant, never by type identity, so messages survive serialization
// round-trips unchanged.
package core
