package dispatch

import "testing"

type noOps struct{}

func (noOps) CheckMsg(*Table, *OpDesc, any) error { return nil }

func noopHandler(any, any, []byte) int32 { return 0 }

func newTestTable() *Table { return New(noOps{}) }

// Property 2: register -> lookup identity.
func TestInsertLookupIdentity(t *testing.T) {
	tbl := newTestTable()
	d := &OpDesc{
		Opcode:      0x10,
		Name:        "identity_op",
		Args:        []ArgDesc{{Size: 4}},
		Retval:      ArgDesc{Size: 4},
		RetvalOwner: OwnerTable,
		Handler:     noopHandler,
	}
	if err := tbl.Insert(d); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, ok := tbl.Lookup(0x10)
	if !ok {
		t.Fatalf("Lookup(0x10) missing after Insert")
	}
	if got.Opcode != d.Opcode || got.Name != d.Name || got.Retval != d.Retval || got.RetvalOwner != d.RetvalOwner {
		t.Errorf("Lookup returned a descriptor not matching what was inserted: %+v vs %+v", got, *d)
	}
	if len(got.Args) != len(d.Args) || got.Args[0] != d.Args[0] {
		t.Errorf("Lookup returned mismatched Args: %+v vs %+v", got.Args, d.Args)
	}
}

// Property 3: remove_all empties, and is idempotent.
func TestRemoveAllEmpties(t *testing.T) {
	tbl := newTestTable()
	for _, opcode := range []uint32{1, 2, 3} {
		if err := tbl.Insert(&OpDesc{Opcode: opcode, Handler: noopHandler, Retval: ArgEnd}); err != nil {
			t.Fatalf("Insert(%d): %v", opcode, err)
		}
	}
	if err := tbl.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	for _, opcode := range []uint32{1, 2, 3} {
		if _, ok := tbl.Lookup(opcode); ok {
			t.Errorf("opcode %d still present after RemoveAll", opcode)
		}
	}
	if err := tbl.RemoveAll(); err != nil {
		t.Errorf("second RemoveAll should be a no-op success, got error: %v", err)
	}
}

// Property 4: return-buffer ownership invariant.
func TestReturnBufferOwnershipInvariant(t *testing.T) {
	tbl := newTestTable()
	tableOwned := &OpDesc{Opcode: 0x20, Handler: noopHandler, Retval: ArgDesc{Size: 4}, RetvalOwner: OwnerTable}
	funcOwned := &OpDesc{Opcode: 0x21, Handler: noopHandler, Retval: ArgDesc{Size: 4}, RetvalOwner: OwnerFunc}

	if err := tbl.Insert(tableOwned); err != nil {
		t.Fatalf("Insert(tableOwned): %v", err)
	}
	if err := tbl.Insert(funcOwned); err != nil {
		t.Fatalf("Insert(funcOwned): %v", err)
	}

	if tbl.entries[0x20].ret == nil {
		t.Errorf("OWNER_TABLE entry with a real retval must have a non-nil buffer after Insert")
	}
	if tbl.entries[0x21].ret != nil {
		t.Errorf("OWNER_FUNC entry must never have a table-owned buffer")
	}

	if err := tbl.Remove(0x20); err != nil {
		t.Fatalf("Remove(0x20): %v", err)
	}
	if _, ok := tbl.Lookup(0x20); ok {
		t.Errorf("0x20 should be gone after Remove")
	}
}

// insert of retval=ARG_END does not allocate a return buffer.
func TestInsertNoRetvalAllocatesNothing(t *testing.T) {
	tbl := newTestTable()
	d := &OpDesc{Opcode: 0x30, Handler: noopHandler, Retval: ArgEnd, RetvalOwner: OwnerTable}
	if err := tbl.Insert(d); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if tbl.entries[0x30].ret != nil {
		t.Errorf("a descriptor with retval=ARG_END must not get a return buffer")
	}
}

// insert of retval with size_of == 0 does not allocate and does not fail.
func TestInsertZeroSizeRetvalAllocatesNothing(t *testing.T) {
	tbl := newTestTable()
	d := &OpDesc{Opcode: 0x31, Handler: noopHandler, Retval: ArgDesc{Size: 0}, RetvalOwner: OwnerTable}
	if err := tbl.Insert(d); err != nil {
		t.Fatalf("Insert with zero-size retval should not fail: %v", err)
	}
	if tbl.entries[0x31].ret != nil {
		t.Errorf("a zero-size retval must not get a return buffer")
	}
}

// Property 6: idempotent cleanup.
func TestCleanupArgsIdempotent(t *testing.T) {
	tbl := newTestTable()
	d := &OpDesc{Opcode: 0x40, Handler: noopHandler, Retval: ArgDesc{Size: 4}, RetvalOwner: OwnerTable}
	if err := tbl.Insert(d); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.CleanupArgs(0x40); err != nil {
		t.Fatalf("first CleanupArgs: %v", err)
	}
	stateAfterFirst := tbl.entries[0x40].ret
	if err := tbl.CleanupArgs(0x40); err != nil {
		t.Fatalf("second CleanupArgs: %v", err)
	}
	if (tbl.entries[0x40].ret == nil) != (stateAfterFirst == nil) || len(tbl.entries[0x40].ret) != len(stateAfterFirst) {
		t.Errorf("CleanupArgs is not idempotent: state changed on second call")
	}
}

// Property 7 (success case): fill_desc pairs equal-length sequences.
func TestFillDescSuccess(t *testing.T) {
	tbl := newTestTable()
	d1 := &OpDesc{Opcode: 1}
	d2 := &OpDesc{Opcode: 2}
	h1 := noopHandler
	h2 := noopHandler

	if err := tbl.FillDesc([]*OpDesc{d1, d2}, []HandlerFunc{h1, h2}); err != nil {
		t.Fatalf("FillDesc: %v", err)
	}
	if d1.Handler == nil || d2.Handler == nil {
		t.Errorf("FillDesc did not bind every handler on a matching-length pair")
	}
}

// S6 — double registration.
func TestDoubleRegistration(t *testing.T) {
	tbl := newTestTable()
	d := &OpDesc{Opcode: 0x50, Handler: noopHandler, Retval: ArgEnd}
	if err := tbl.Insert(d); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	err := tbl.Insert(d)
	if err == nil {
		t.Fatalf("second Insert with the same opcode must fail")
	}
	var derr Error
	if !asError(err, &derr) || derr.Code != ErrAlloc {
		t.Errorf("expected ErrAlloc, got %v", err)
	}
	if _, ok := tbl.Lookup(0x50); !ok {
		t.Errorf("first entry must remain intact after a rejected duplicate insert")
	}
	if tbl.Call(0x50, nil, nil, nil) != 0 {
		t.Errorf("first entry must remain callable after a rejected duplicate insert")
	}
}

func asError(err error, target *Error) bool {
	de, ok := err.(Error)
	if !ok {
		return false
	}
	*target = de
	return true
}
