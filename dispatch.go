package dispatch

import log "log/slog"

// CheckArgs is the first stage of the pipeline: look up the handler record,
// invoke the validation hook against args, and (only once validation
// succeeds) bind the return buffer the way SetRet would. Any failing step
// short-circuits the rest, mirroring _disp_table_check_args's early-return
// structure.
func (t *Table) CheckArgs(opcode uint32, args any) ([]byte, error) {
	log.Debug("dispatch: check_args", "opcode", EncodeKey(opcode))
	h, ok := t.lookupHandler(opcode)
	if !ok {
		return nil, errNoFuncRegFor(opcode)
	}

	if err := t.invokeCheckMsg(h.op, args); err != nil {
		return nil, err
	}

	return h.setRet()
}

// SetRet binds the return buffer for opcode without running validation.
func (t *Table) SetRet(opcode uint32) ([]byte, error) {
	h, ok := t.lookupHandler(opcode)
	if !ok {
		return nil, errNoFuncRegFor(opcode)
	}
	return h.setRet()
}

// CleanupArgs runs the owned-buffer cleanup path for opcode. It is
// idempotent: calling it twice in a row leaves the record in the same
// state as calling it once, the same guarantee _disp_table_cleanup_args
// gives by checking for a NULL buffer before freeing it.
func (t *Table) CleanupArgs(opcode uint32) error {
	h, ok := t.lookupHandler(opcode)
	if !ok {
		return errNoFuncRegFor(opcode)
	}
	h.cleanupArgs()
	return nil
}

// Call looks up the handler, enforces the return-pointer consistency rule
// — (op.Retval != ArgEnd) iff (ret != nil) — and invokes the handler,
// returning its status verbatim. A miss, an unbound handler, or a
// consistency violation all return -1, matching the C source's single
// failure sentinel for this call.
func (t *Table) Call(opcode uint32, owner any, args any, ret []byte) int32 {
	h, ok := t.lookupHandler(opcode)
	if !ok {
		return -1
	}
	if !h.op.hasHandler() {
		return -1
	}
	wantsRet := !IsArgEnd(h.op.Retval)
	hasRet := ret != nil
	if wantsRet != hasRet {
		return -1
	}
	status := h.op.Handler(owner, args, ret)
	t.notifyObservers(owner, h.op, ret, status)
	return status
}

// CheckCall is the combined convenience: CheckArgs then Call with the
// bound return buffer. It returns -1 if CheckArgs fails, otherwise the
// handler's own status.
func (t *Table) CheckCall(opcode uint32, owner any, args any) int32 {
	ret, err := t.CheckArgs(opcode, args)
	if err != nil {
		return -1
	}
	return t.Call(opcode, owner, args, ret)
}

// invokeCheckMsg wraps the Ops hook the way disp_table_ops_check_msg does:
// it verifies the table has a hook bound and that the hook itself is
// non-nil before calling through, surfacing ErrNoFuncReg otherwise.
func (t *Table) invokeCheckMsg(op *OpDesc, args any) error {
	if t == nil || t.ops == nil {
		return newErr(ErrNoFuncReg, op.Opcode, nil)
	}
	// Surfaced verbatim: the hook's own error is the caller-visible shape
	// mismatch code, never wrapped into a dispatch.Error.
	return t.ops.CheckMsg(t, op, args)
}
