// Package model defines the bound-model collaborator contract the
// orchestration engine consumes: blocking completion, streaming with an
// ordered event sequence resolving to a final response, and a static
// capability descriptor. Provider adapters live in subpackages; the engine
// never branches on provider identity beyond diagnostics.
package model
