package core

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID generates a unique identifier for correlation purposes (invocations,
// tool call ids produced locally, etc.).
func NewID() string { return uuid.NewString() }

// NewMessageID generates a lexicographically sortable message identifier.
// Messages are append-only, so ULIDs keep ids in creation order.
func NewMessageID() string { return ulid.Make().String() }
