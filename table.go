package dispatch

import (
	log "log/slog"
)

// Table is the opcode-keyed registry: a passive, single-owner data
// structure with no internal locking or suspension points, the same
// contract the C source's zhash-backed disp_table_t gives its caller. It
// owns its opHandler records and, conditionally per operation, their
// return buffers; it borrows both the OpDesc values passed to Insert and
// the Ops hook table passed to New.
//
// Concurrent mutation, or mutation concurrent with lookup/dispatch, is
// undefined — callers serialize access themselves, e.g. by running a
// single dispatch worker or wrapping a Table in an external lock.
type Table struct {
	entries   map[uint32]*opHandler
	ops       Ops
	observers []ObserverFunc
}

// ObserverFunc is notified after every Call that reaches its handler (a
// Call that fails its lookup, handler or consistency check returns -1
// without notifying), with the caller's owner value, the descriptor, the
// ret buffer the handler was given (nil when the operation declares no
// return value; the caller's own buffer for an OWNER_FUNC operation), and
// the handler's status.
// Observers run synchronously on the calling goroutine, after the handler
// returns and before Call itself returns — they exist for dispatch/cache,
// dispatch/audit, and dispatch/integrity to mirror/log/protect results
// without the core depending on any of them. owner is passed through
// unexamined except that dispatch/audit type-asserts it against
// idgen.CorrelationCarrier to thread a correlation id.
type ObserverFunc func(owner any, op *OpDesc, ret []byte, status int32)

// Observe registers f to run after every call that reaches its handler.
func (t *Table) Observe(f ObserverFunc) {
	t.observers = append(t.observers, f)
}

func (t *Table) notifyObservers(owner any, op *OpDesc, ret []byte, status int32) {
	for _, f := range t.observers {
		f(owner, op, ret, status)
	}
}

// New constructs an empty Table bound to ops. ops may be nil for
// descriptor-only use (e.g. building a table purely to export its shape via
// dispatch/snapshot) — dispatch through such a table will fail with
// ErrNoFuncReg the first time it needs the hook.
func New(ops Ops) *Table {
	return &Table{
		entries: make(map[uint32]*opHandler),
		ops:     ops,
	}
}

// Close removes every entry (freeing their owned return buffers) and
// releases the table's backing storage. Close is idempotent and always
// succeeds, mirroring disp_table_destroy's "always returns success"
// contract; it is safe to call on an already-closed Table.
func (t *Table) Close() error {
	if t == nil {
		return nil
	}
	_ = t.RemoveAll()
	t.ops = nil
	t.entries = nil
	return nil
}

// Insert registers desc. It allocates the OWNER_TABLE return buffer (if
// any) before touching the map, so a failure never leaves a dangling or
// partially-bound entry: either the whole insert succeeds, or the table is
// left exactly as it was (see DESIGN.md open question 3).
func (t *Table) Insert(desc *OpDesc) error {
	if desc == nil {
		return newErr(ErrNullPointer, nil, nil)
	}
	log.Debug("dispatch: registering operation into table",
		"name", desc.Name, "opcode", EncodeKey(desc.Opcode))

	if _, exists := t.entries[desc.Opcode]; exists {
		// Duplicate opcodes are rejected the way the source's underlying
		// hash-insert rejects them: surfaced as ErrAlloc.
		return newErr(ErrAlloc, desc.Opcode, nil)
	}

	h := &opHandler{op: desc, ret: allocRet(desc)}
	t.entries[desc.Opcode] = h
	return nil
}

// InsertAll inserts a null-terminated-in-spirit sequence of descriptors in
// order. On the first failure it stops and returns that error;
// already-inserted entries remain (best-effort, non-atomic across the
// batch). Unlike the C source, the returned error is the real per-entry
// failure, not a shadowed success (DESIGN.md open question 2).
func (t *Table) InsertAll(descs []*OpDesc) error {
	for _, d := range descs {
		if err := t.Insert(d); err != nil {
			return err
		}
	}
	return nil
}

// Remove cleans up and deletes the entry for opcode. A missing opcode is
// tolerated (idempotent remove), matching disp_table_remove's own
// "lookup miss is OK on the remove path" behavior.
func (t *Table) Remove(opcode uint32) error {
	h, ok := t.entries[opcode]
	if !ok {
		return nil
	}
	log.Debug("dispatch: removing operation from table", "opcode", EncodeKey(opcode))
	h.cleanupArgs()
	delete(t.entries, opcode)
	return nil
}

// RemoveAll removes every entry. It snapshots the current key set before
// iterating (the way _disp_table_remove_all snapshots zhash_keys) so the
// removal loop is well-defined even though Remove mutates the same map.
func (t *Table) RemoveAll() error {
	keys := make([]uint32, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	for _, k := range keys {
		_ = t.Remove(k)
	}
	return nil
}

// Lookup returns the descriptor registered for opcode. The bool result is
// false when absent — an absent-marker contract, unlike the original's
// public lookup, which dereferences an unchecked pointer on a miss (see
// DESIGN.md open question 1).
func (t *Table) Lookup(opcode uint32) (OpDesc, bool) {
	h, ok := t.entries[opcode]
	if !ok {
		return OpDesc{}, false
	}
	return *h.op, true
}

// FillDesc walks descs and handlers in lockstep, assigning
// descs[i].Handler = handlers[i]. It fails with ErrNullPointer if the two
// sequences have different lengths, leaving every assignment made before
// the mismatch intact — the same partial-assignment-on-mismatch behavior
// the original fill_desc has (see DESIGN.md open question 4).
func (t *Table) FillDesc(descs []*OpDesc, handlers []HandlerFunc) error {
	n := len(descs)
	if len(handlers) < n {
		n = len(handlers)
	}
	for i := 0; i < n; i++ {
		descs[i].Handler = handlers[i]
	}
	if len(descs) != len(handlers) {
		return newErr(ErrNullPointer, nil,
			errUnevenFill(len(descs), len(handlers)))
	}
	return nil
}

func (t *Table) lookupHandler(opcode uint32) (*opHandler, bool) {
	h, ok := t.entries[opcode]
	return h, ok
}

// Opcodes returns every opcode currently registered, in no particular
// order. It exists for callers that need to enumerate a table — dispatch/
// restapi's listing endpoint, dispatch/snapshot's export — that have no
// other way to discover what a Table holds beyond probing individual
// opcodes via Lookup.
func (t *Table) Opcodes() []uint32 {
	keys := make([]uint32, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}
