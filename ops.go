package dispatch

// Ops is the validation-hook capability set the registry invokes while
// dispatching. CheckMsg is the only operation the core requires; the
// interface leaves room for the table to grow more hooks the way the
// original disp_table_ops_t could without breaking existing callers.
type Ops interface {
	// CheckMsg inspects args against op's declared shape and returns a
	// non-nil error (surfaced verbatim) when the payload doesn't match.
	CheckMsg(t *Table, op *OpDesc, args any) error
}
