// Package integrity guards OWNER_TABLE return buffers against bit rot and
// partial writes using Reed-Solomon erasure coding, the same scheme the
// pack's filesystem backend uses for on-disk blobs, applied here to an
// in-memory buffer instead of a file.
package integrity

// Config configures shard counts for a Protector. It mirrors the pack's
// filesystem erasure-coding config shape (data/parity shard counts, repair
// policy); BaseFolderPathsAcrossDrives has no meaning for an in-memory
// buffer and is intentionally dropped.
type Config struct {
	// DataShardsCount is the number of data shards to split a buffer into.
	DataShardsCount int `json:"data_shards_count"`
	// ParityShardsCount is the number of parity shards added for recovery.
	ParityShardsCount int `json:"parity_shards_count"`
	// RepairCorruptedShards tells Protector.Verify whether to attempt
	// reconstruction in place when it detects damage, or only report it.
	RepairCorruptedShards bool `json:"repair_corrupted_shards"`
}

// DefaultConfig returns a modest 4 data / 2 parity shard configuration with
// repair enabled, suitable for the small, fixed-size buffers a dispatch
// table's OWNER_TABLE operations typically declare.
func DefaultConfig() Config {
	return Config{
		DataShardsCount:       4,
		ParityShardsCount:     2,
		RepairCorruptedShards: true,
	}
}
