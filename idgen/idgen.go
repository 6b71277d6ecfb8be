// Package idgen stamps dispatch calls with a correlation id, which
// dispatch/audit records for request tracing.
package idgen

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// ID is a thin wrapper over github.com/google/uuid.UUID, kept so the rest
// of this module doesn't spread that import around.
type ID uuid.UUID

// Nil is the zero-value ID.
var Nil ID

// New returns a new randomly generated ID. It makes up to 10 attempts,
// sleeping 1ms after each failure, and panics only if every attempt fails, which
// should never happen under normal conditions — generating a correlation
// id is a hard requirement of every call site that uses one.
func New() ID {
	var err error
	for i := 0; i < 10; i++ {
		var id uuid.UUID
		id, err = uuid.NewRandom()
		if err == nil {
			return ID(id)
		}
		time.Sleep(time.Millisecond)
	}
	panic(err)
}

// Parse converts a string to an ID.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	return ID(u), err
}

// IsNil reports whether id equals the zero-value ID.
func (id ID) IsNil() bool {
	return bytes.Equal(id[:], Nil[:])
}

// String returns the canonical string representation of id.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// CorrelationCarrier is implemented by an owner value passed to
// Table.Call/CheckCall that wants the dispatch layer to stamp and retrieve
// a correlation id for tracing through dispatch/audit.
type CorrelationCarrier interface {
	CorrelationID() ID
	SetCorrelationID(ID)
}

// Stamp assigns a fresh ID to owner if owner carries one and doesn't already
// have one set, then returns the effective id. It is a no-op (returning
// Nil) when owner doesn't implement CorrelationCarrier.
func Stamp(owner any) ID {
	cc, ok := owner.(CorrelationCarrier)
	if !ok {
		return Nil
	}
	if id := cc.CorrelationID(); !id.IsNil() {
		return id
	}
	id := New()
	cc.SetCorrelationID(id)
	return id
}
