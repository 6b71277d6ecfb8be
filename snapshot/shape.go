package snapshot

import dispatch "github.com/sharedcode-labs/dispatchtable"

// Shape is the exportable, handler-free projection of a dispatch.OpDesc.
type Shape struct {
	Opcode      uint32             `json:"opcode"`
	Name        string             `json:"name"`
	Args        []dispatch.ArgDesc `json:"args"`
	Retval      dispatch.ArgDesc   `json:"retval"`
	RetvalOwner dispatch.RetOwner  `json:"retval_owner"`
}

// ShapeOf projects desc into its exportable Shape, dropping Handler.
func ShapeOf(desc dispatch.OpDesc) Shape {
	return Shape{
		Opcode:      desc.Opcode,
		Name:        desc.Name,
		Args:        desc.Args,
		Retval:      desc.Retval,
		RetvalOwner: desc.RetvalOwner,
	}
}

// ToOpDesc rebuilds a dispatch.OpDesc from a Shape. The returned descriptor
// has a nil Handler. Insert accepts it as it is, but Call returns -1 for it
// until a handler is bound via Table.FillDesc (or by setting Handler
// directly).
func (s Shape) ToOpDesc() *dispatch.OpDesc {
	return &dispatch.OpDesc{
		Opcode:      s.Opcode,
		Name:        s.Name,
		Args:        s.Args,
		Retval:      s.Retval,
		RetvalOwner: s.RetvalOwner,
	}
}

// ShapesOf projects the descriptors registered in t under opcodes, skipping
// any opcode t does not hold.
func ShapesOf(t *dispatch.Table, opcodes []uint32) []Shape {
	shapes := make([]Shape, 0, len(opcodes))
	for _, opcode := range opcodes {
		if desc, ok := t.Lookup(opcode); ok {
			shapes = append(shapes, ShapeOf(desc))
		}
	}
	return shapes
}
