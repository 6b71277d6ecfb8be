package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

func TestShapeOfDropsHandler(t *testing.T) {
	desc := dispatch.OpDesc{
		Opcode:      0x2a,
		Name:        "sum_u32",
		Args:        []dispatch.ArgDesc{{Size: 4}, {Size: 4}},
		Retval:      dispatch.ArgDesc{Size: 4},
		RetvalOwner: dispatch.OwnerTable,
		Handler:     func(any, any, []byte) int32 { return 0 },
	}
	shape := ShapeOf(desc)
	require.Equal(t, desc.Opcode, shape.Opcode)
	require.Equal(t, desc.Name, shape.Name)
	require.Len(t, shape.Args, len(desc.Args))
}

func TestShapeRoundTripToOpDesc(t *testing.T) {
	original := dispatch.OpDesc{
		Opcode:      0x01,
		Name:        "log_u32",
		Args:        []dispatch.ArgDesc{{Size: 4}},
		Retval:      dispatch.ArgEnd,
		RetvalOwner: dispatch.OwnerTable,
	}
	shape := ShapeOf(original)
	rebuilt := shape.ToOpDesc()

	require.Equal(t, original.Opcode, rebuilt.Opcode)
	require.Equal(t, original.Name, rebuilt.Name)
	require.Nil(t, rebuilt.Handler)
}

func TestShapesOfSkipsUnknownOpcodes(t *testing.T) {
	tbl := dispatch.New(nil)
	desc := &dispatch.OpDesc{
		Opcode:      0x2a,
		Name:        "sum_u32",
		RetvalOwner: dispatch.OwnerTable,
		Retval:      dispatch.ArgDesc{Size: 4},
		Handler:     func(any, any, []byte) int32 { return 0 },
	}
	require.NoError(t, tbl.Insert(desc))

	shapes := ShapesOf(tbl, []uint32{0x2a, 0x99})
	require.Len(t, shapes, 1)
	require.Equal(t, uint32(0x2a), shapes[0].Opcode)
}
