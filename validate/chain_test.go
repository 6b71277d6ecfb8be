package validate

import (
	"errors"
	"testing"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

type stubOps struct {
	err   error
	calls *int
}

func (s stubOps) CheckMsg(*dispatch.Table, *dispatch.OpDesc, any) error {
	if s.calls != nil {
		*s.calls++
	}
	return s.err
}

func TestChainShortCircuitsOnFirstFailure(t *testing.T) {
	var secondCalls int
	boom := errors.New("boom")
	chain := Chain{stubOps{err: boom}, stubOps{calls: &secondCalls}}

	err := chain.CheckMsg(nil, &dispatch.OpDesc{}, nil)
	if err != boom {
		t.Errorf("expected the first failing link's error, got %v", err)
	}
	if secondCalls != 0 {
		t.Errorf("second link must not run once the first one fails")
	}
}

func TestChainAllPass(t *testing.T) {
	var calls int
	chain := Chain{stubOps{calls: &calls}, stubOps{calls: &calls}}
	if err := chain.CheckMsg(nil, &dispatch.OpDesc{}, nil); err != nil {
		t.Errorf("expected a chain of passing links to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected both links to run, got %d calls", calls)
	}
}
