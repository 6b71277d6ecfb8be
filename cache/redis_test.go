package cache

import (
	"context"
	"testing"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

func TestMirrorKeyNamespacesOpcode(t *testing.T) {
	if got, want := mirrorKey("2a"), "dispatch:ret:2a"; got != want {
		t.Errorf("mirrorKey(%q) = %q, want %q", "2a", got, want)
	}
}

func TestMirrorPutWithoutConnectionFails(t *testing.T) {
	m := &Mirror{}
	if err := m.Put(context.Background(), "01", []byte("x")); err == nil {
		t.Errorf("expected Put without an open connection to fail")
	}
}

func TestMirrorGetWithoutConnectionFails(t *testing.T) {
	m := &Mirror{}
	if _, ok, err := m.Get(context.Background(), "01"); err == nil || ok {
		t.Errorf("expected Get without an open connection to fail, got ok=%v err=%v", ok, err)
	}
}

func TestMirrorObserverSkipsNonTableOwnedRetvals(t *testing.T) {
	m := &Mirror{}
	obs := m.Observer()
	// OWNER_FUNC op: must not attempt a Put (which would fail loudly with no
	// connection open, logging a warning) since there's no stable buffer to
	// mirror once Call returns.
	op := &dispatch.OpDesc{Opcode: 0x01, RetvalOwner: dispatch.OwnerFunc}
	obs(nil, op, []byte("ignored"), 0)

	// Table-owned op but nil ret (an op that declares no return value): also
	// a no-op.
	op2 := &dispatch.OpDesc{Opcode: 0x02, RetvalOwner: dispatch.OwnerTable}
	obs(nil, op2, nil, -1)
}
