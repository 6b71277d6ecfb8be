package validate

import dispatch "github.com/sharedcode-labs/dispatchtable"

// Chain composes multiple dispatch.Ops hooks into one, short-circuiting on
// the first failure. Each link sees the same args; none of them see each
// other's state. Typical use is SizeValidator first (cheap, structural),
// CELValidator second (business rules, only worth running once shape is
// already known good).
type Chain []dispatch.Ops

// CheckMsg implements dispatch.Ops.
func (c Chain) CheckMsg(t *dispatch.Table, op *dispatch.OpDesc, args any) error {
	for _, link := range c {
		if err := link.CheckMsg(t, op, args); err != nil {
			return err
		}
	}
	return nil
}
