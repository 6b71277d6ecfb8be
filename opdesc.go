package dispatch

import log "log/slog"

// HandlerFunc is the signature every registered operation is invoked through:
// owner is caller-supplied context (the original C source's "owner" void
// pointer), args is the decoded argument payload, and ret is the return
// buffer — nil unless the descriptor declares a return value. It returns the
// handler's own status code, passed back to the caller unmolested.
type HandlerFunc func(owner any, args any, ret []byte) int32

// OpDesc is the immutable, per-operation metadata the original disp_op_t
// carried: opcode, diagnostic name, ordered argument shape, return shape,
// return-ownership, and the handler to invoke. Descriptors are expected to
// be long-lived (typically package-level) — the registry only ever borrows
// them.
type OpDesc struct {
	// Opcode is unique within a single Table.
	Opcode uint32
	// Name is diagnostic only; never used for lookup.
	Name string
	// Handler may be nil at construction time if it will be bound later via
	// FillDesc, but must be non-nil before any Call reaches this op.
	Handler HandlerFunc
	// Args is the ordered argument shape. An empty slice means "no arguments".
	Args []ArgDesc
	// Retval describes the return value, or ArgEnd for "no return value".
	Retval ArgDesc
	// RetvalOwner only matters when Retval != ArgEnd.
	RetvalOwner RetOwner
}

// hasHandler reports whether the descriptor has a handler bound, the
// precondition call() enforces before dispatching.
func (d *OpDesc) hasHandler() bool {
	return d != nil && d.Handler != nil
}

// opHandler is the runtime wrapper the registry owns: one descriptor plus,
// conditionally on RetvalOwner, the buffer returned calls share.
type opHandler struct {
	op  *OpDesc
	ret []byte
}

// allocRet allocates the table-owned return buffer for op, or leaves ret nil
// when ownership is OWNER_FUNC, there's no return value, or its size is
// zero — mirroring _disp_table_alloc_ret's three no-op paths.
func allocRet(op *OpDesc) []byte {
	if op.RetvalOwner != OwnerTable {
		return nil
	}
	size := SizeOf(op.Retval)
	if size == 0 {
		return nil
	}
	return make([]byte, size)
}

// cleanupArgs frees the table-owned return buffer, if any, and is
// idempotent: calling it again on an already-cleaned handler is a no-op.
// OWNER_FUNC buffers are never touched here — the handler owns that memory.
func (h *opHandler) cleanupArgs() {
	if h.ret == nil {
		return
	}
	if h.op.RetvalOwner == OwnerFunc {
		return
	}
	h.ret = nil
}

// setRet binds ret to the handler's return buffer the way
// _disp_table_set_ret_op does: nil when there's no return value, otherwise
// the owned buffer (which must already be allocated by insert time).
//
// This only ever produces a non-nil buffer for OWNER_TABLE operations:
// OWNER_FUNC operations never populate h.ret (allocRet skips them), so an
// OWNER_FUNC op with a real Retval hits the ErrAlloc branch here. That
// matches the source exactly — CheckArgs/CheckCall are meant for
// OWNER_TABLE operations; an OWNER_FUNC op with a return value is driven
// through Call directly, with the caller supplying its own ret buffer.
func (h *opHandler) setRet() ([]byte, error) {
	log.Debug("dispatch: set_ret", "opcode", EncodeKey(h.op.Opcode))
	if IsArgEnd(h.op.Retval) {
		return nil, nil
	}
	if h.ret == nil {
		return nil, newErr(ErrAlloc, h.op.Opcode, nil)
	}
	return h.ret, nil
}
