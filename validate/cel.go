package validate

import (
	"fmt"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/cel"
)

// CELValidator implements dispatch.Ops by running a per-opcode CEL rule
// against the call's args (expected to type-assert to map[string]any) and a
// shared policy map. A rule evaluates to 0 when the call is within policy
// and non-zero otherwise, the same comparator convention the cel package's
// evaluator already uses (mapX vs. mapY, -1/0/1-shaped results).
//
// Opcodes with no rule registered pass unconditionally — CELValidator is
// meant to express business-level payload rules (quota bounds, field
// cross-checks), not the structural shape check SizeValidator already
// covers; the two are composed via Chain where both matter.
type CELValidator struct {
	rules  map[uint32]*cel.Evaluator
	policy map[string]any
}

// NewCELValidator returns a CELValidator that checks calls against policy.
func NewCELValidator(policy map[string]any) *CELValidator {
	return &CELValidator{
		rules:  make(map[uint32]*cel.Evaluator),
		policy: policy,
	}
}

// AddRule compiles expression and binds it to opcode. expression is
// evaluated with mapX bound to the call's args and mapY bound to the
// validator's policy map.
func (v *CELValidator) AddRule(opcode uint32, name string, expression string) error {
	e, err := cel.NewEvaluator(name, expression)
	if err != nil {
		return fmt.Errorf("dispatch/validate: compiling rule %q for opcode %s: %w",
			name, dispatch.EncodeKey(opcode), err)
	}
	v.rules[opcode] = e
	return nil
}

// CheckMsg implements dispatch.Ops.
func (v *CELValidator) CheckMsg(_ *dispatch.Table, op *dispatch.OpDesc, args any) error {
	e, ok := v.rules[op.Opcode]
	if !ok {
		return nil
	}
	mapX, ok := args.(map[string]any)
	if !ok {
		return fmt.Errorf("dispatch/validate: %s args must be map[string]any for CEL rules, got %T",
			op.Name, args)
	}
	result, err := e.Evaluate(mapX, v.policy)
	if err != nil {
		return fmt.Errorf("dispatch/validate: %s rule evaluation failed: %w", op.Name, err)
	}
	if result != 0 {
		return fmt.Errorf("dispatch/validate: %s rejected by policy (rule result %d)", op.Name, result)
	}
	return nil
}
