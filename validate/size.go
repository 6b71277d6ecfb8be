// Package validate collects dispatch.Ops implementations: a dependency-free
// shape checker against an operation's declared ArgDesc slice, and a
// CEL-scripted hook for payload-level business rules built on the pack's
// cel package.
package validate

import (
	"fmt"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

// SizeValidator implements dispatch.Ops purely against op.Args: it requires
// the call's args to type-assert to [][]byte, one slice per declared
// argument, and checks each one's length against the corresponding ArgDesc.
// Fixed-size arguments must match exactly; variable-size arguments must not
// exceed the declared size, which ArgDesc.Variable documents as a maximum,
// not an exact length.
type SizeValidator struct{}

// CheckMsg implements dispatch.Ops.
func (SizeValidator) CheckMsg(_ *dispatch.Table, op *dispatch.OpDesc, args any) error {
	got, ok := args.([][]byte)
	if !ok {
		return fmt.Errorf("dispatch/validate: args must be [][]byte, got %T", args)
	}
	if len(got) != len(op.Args) {
		return fmt.Errorf("dispatch/validate: %s expects %d argument(s), got %d",
			op.Name, len(op.Args), len(got))
	}
	for i, desc := range op.Args {
		want := dispatch.SizeOf(desc)
		n := uint32(len(got[i]))
		if desc.Variable {
			if n > want {
				return fmt.Errorf("dispatch/validate: %s argument %d exceeds max size %d (got %d)",
					op.Name, i, want, n)
			}
			continue
		}
		if n != want {
			return fmt.Errorf("dispatch/validate: %s argument %d must be exactly %d bytes (got %d)",
				op.Name, i, want, n)
		}
	}
	return nil
}
