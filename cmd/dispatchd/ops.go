package main

import (
	"encoding/binary"
	log "log/slog"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

// sampleOps returns a couple of illustrative operations: one with no
// return value, one with a table-owned fixed-size return value, the two
// basic shapes any handler registered with Table.Insert can take.
func sampleOps() []*dispatch.OpDesc {
	return []*dispatch.OpDesc{
		{
			Opcode:      0x01,
			Name:        "log_u32",
			Args:        []dispatch.ArgDesc{{Size: 4}},
			Retval:      dispatch.ArgEnd,
			RetvalOwner: dispatch.OwnerTable,
			Handler:     logU32,
		},
		{
			Opcode:      0x2A,
			Name:        "sum_u32",
			Args:        []dispatch.ArgDesc{{Size: 4}, {Size: 4}},
			Retval:      dispatch.ArgDesc{Size: 4},
			RetvalOwner: dispatch.OwnerTable,
			Handler:     sumU32,
		},
	}
}

func logU32(_ any, args any, _ []byte) int32 {
	a, ok := args.([][]byte)
	if !ok || len(a) != 1 {
		return -1
	}
	log.Info("dispatchd: log_u32", "value", binary.LittleEndian.Uint32(a[0]))
	return 0
}

func sumU32(_ any, args any, ret []byte) int32 {
	a, ok := args.([][]byte)
	if !ok || len(a) != 2 {
		return -1
	}
	sum := binary.LittleEndian.Uint32(a[0]) + binary.LittleEndian.Uint32(a[1])
	binary.LittleEndian.PutUint32(ret, sum)
	return 0
}
