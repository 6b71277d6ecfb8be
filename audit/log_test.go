package audit

import (
	"testing"
	"time"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/idgen"
)

func TestAppendWithoutConnectionDoesNotPanic(t *testing.T) {
	l := NewLogger()
	// connection is the package-level singleton and is nil in this test
	// binary; Append must log and return rather than dereference it.
	l.Append(idgen.New(), "2a", 0)
}

func TestObserverStampsOwnerCorrelationID(t *testing.T) {
	restore := Now
	Now = func() time.Time { return time.Unix(0, 0) }
	defer func() { Now = restore }()

	l := NewLogger()
	obs := l.Observer()
	op := &dispatch.OpDesc{Opcode: 0x2a}

	owner := &carrier{}
	obs(owner, op, nil, 0)
	if owner.id.IsNil() {
		t.Errorf("expected Observer to stamp a correlation id onto the owner")
	}
}

func TestObserverToleratesNonCarrierOwner(t *testing.T) {
	l := NewLogger()
	obs := l.Observer()
	op := &dispatch.OpDesc{Opcode: 0x2a}
	obs("not a carrier", op, nil, 0)
}

type carrier struct{ id idgen.ID }

func (c *carrier) CorrelationID() idgen.ID      { return c.id }
func (c *carrier) SetCorrelationID(id idgen.ID) { c.id = id }
