package dispatch

import "strconv"

// EncodeKey is the canonical textual encoding of a 32-bit opcode: lowercase
// hexadecimal, no padding, no "0x" prefix (e.g. 0x2A -> "2a"). It is total
// and injective over uint32.
//
// The C source used this as the actual map key because its general-purpose
// hash container (zhash) only accepts string keys; this reimplementation
// keys its registry directly by uint32 (see Table) and keeps
// EncodeKey/DecodeKey around purely for wire boundaries — log lines, the
// REST admin surface's URL path segment, and the snapshot JSON format.
func EncodeKey(opcode uint32) string {
	return strconv.FormatUint(uint64(opcode), 16)
}

// DecodeKey parses the canonical hex encoding back into an opcode. It
// accepts the same alphabet EncodeKey produces; where the C source would
// report ERR_ALLOC on an encode failure, this just returns strconv's parse
// error directly.
func DecodeKey(key string) (uint32, error) {
	v, err := strconv.ParseUint(key, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
