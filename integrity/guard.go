package integrity

import (
	log "log/slog"
	"sync"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

// Guard keeps one Protector per opcode and snapshots an OWNER_TABLE return
// buffer every time a call refreshes it, via the same observer hook
// dispatch/cache and dispatch/audit use. It never blocks or fails a
// dispatch: a snapshot error is logged, not propagated, since integrity
// protection is a defense added after the fact, not part of the core
// dispatch pipeline.
type Guard struct {
	cfg Config

	mu         sync.Mutex
	protectors map[uint32]*Protector
}

// NewGuard returns a Guard that erasure-codes buffers using cfg.
func NewGuard(cfg Config) *Guard {
	return &Guard{cfg: cfg, protectors: make(map[uint32]*Protector)}
}

// Observer returns a dispatch.ObserverFunc suitable for Table.Observe.
func (g *Guard) Observer() dispatch.ObserverFunc {
	return func(_ any, op *dispatch.OpDesc, ret []byte, status int32) {
		if op.RetvalOwner != dispatch.OwnerTable || ret == nil {
			return
		}
		key := dispatch.EncodeKey(op.Opcode)
		p, err := g.protectorFor(op.Opcode, len(ret))
		if err != nil {
			log.Warn("dispatch/integrity: can't build protector", "opcode", key, "error", err)
			return
		}
		if err := p.Snapshot(ret); err != nil {
			log.Warn("dispatch/integrity: snapshot failed", "opcode", key, "error", err)
		}
	}
}

// Verify checks the current contents of ret against the last snapshot taken
// for opcode, repairing it in place if corruption is found and the Guard's
// Config allows it.
func (g *Guard) Verify(opcode uint32, ret []byte) (bool, error) {
	g.mu.Lock()
	p, ok := g.protectors[opcode]
	g.mu.Unlock()
	if !ok {
		return false, nil
	}
	return p.Verify(ret)
}

func (g *Guard) protectorFor(opcode uint32, size int) (*Protector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.protectors[opcode]; ok {
		return p, nil
	}
	p, err := NewProtector(g.cfg, size)
	if err != nil {
		return nil, err
	}
	g.protectors[opcode] = p
	return p, nil
}
