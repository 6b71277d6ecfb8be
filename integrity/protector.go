package integrity

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Protector erasure-codes a snapshot of a return buffer each time Snapshot
// is called and can later verify (and, per Config, repair) the live buffer
// against that snapshot. It is grounded in the same
// github.com/klauspost/reedsolomon split/encode/verify/reconstruct
// sequence, plus the per-shard checksum used to tell a corrupted-but-
// present shard from an intact one, that the pack's filesystem blob store
// uses for its on-disk shard files — applied here to one in-memory buffer.
type Protector struct {
	cfg       Config
	encoder   reedsolomon.Encoder
	size      int
	checksums [][md5.Size]byte
}

// NewProtector builds a Protector for buffers of exactly size bytes.
func NewProtector(cfg Config, size int) (*Protector, error) {
	if cfg.DataShardsCount+cfg.ParityShardsCount > 256 {
		return nil, fmt.Errorf("dispatch/integrity: sum of data and parity shards cannot exceed 256")
	}
	enc, err := reedsolomon.New(cfg.DataShardsCount, cfg.ParityShardsCount)
	if err != nil {
		return nil, fmt.Errorf("dispatch/integrity: %w", err)
	}
	return &Protector{cfg: cfg, encoder: enc, size: size}, nil
}

// Snapshot erasure-encodes buf and remembers each shard's checksum as the
// reference state for future Verify calls. Call it every time the table's
// handler has just finished writing a fresh value into buf.
func (p *Protector) Snapshot(buf []byte) error {
	if len(buf) != p.size {
		return fmt.Errorf("dispatch/integrity: snapshot size mismatch, want %d got %d", p.size, len(buf))
	}
	shards, err := p.encoder.Split(buf)
	if err != nil {
		return fmt.Errorf("dispatch/integrity: split: %w", err)
	}
	if err := p.encoder.Encode(shards); err != nil {
		return fmt.Errorf("dispatch/integrity: encode: %w", err)
	}
	p.checksums = checksumShards(shards)
	return nil
}

// Verify checks buf against the last Snapshot. It returns true if buf is
// intact (or was successfully repaired in place, when
// Config.RepairCorruptedShards is set), false if corruption was detected
// and either repair is disabled or reconstruction failed.
func (p *Protector) Verify(buf []byte) (bool, error) {
	if p.checksums == nil {
		return false, fmt.Errorf("dispatch/integrity: Verify called before any Snapshot")
	}
	if len(buf) != p.size {
		return false, fmt.Errorf("dispatch/integrity: verify size mismatch, want %d got %d", p.size, len(buf))
	}

	shards, err := p.encoder.Split(buf)
	if err != nil {
		return false, fmt.Errorf("dispatch/integrity: split: %w", err)
	}
	if ok, _ := p.encoder.Verify(shards); ok {
		return true, nil
	}
	if !p.cfg.RepairCorruptedShards {
		return false, nil
	}

	corrupted := p.markCorrupted(shards)
	if len(corrupted) == 0 {
		// Parity said something's wrong but every shard matches its
		// snapshot checksum — nothing we can attribute and reconstruct.
		return false, nil
	}
	if err := p.encoder.Reconstruct(shards); err != nil {
		return false, fmt.Errorf("dispatch/integrity: reconstruct: %w", err)
	}
	if ok, _ := p.encoder.Verify(shards); !ok {
		return false, nil
	}

	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	if err := p.encoder.Join(w, shards, p.size); err != nil {
		return false, fmt.Errorf("dispatch/integrity: join: %w", err)
	}
	w.Flush()
	copy(buf, b.Bytes())
	p.checksums = checksumShards(shards)
	return true, nil
}

// markCorrupted nils out every shard whose checksum no longer matches the
// last Snapshot, returning their indices, so Reconstruct has something to
// rebuild from parity.
func (p *Protector) markCorrupted(shards [][]byte) []int {
	var corrupted []int
	for i, shard := range shards {
		if i >= len(p.checksums) {
			break
		}
		if md5.Sum(shard) != p.checksums[i] {
			corrupted = append(corrupted, i)
			shards[i] = nil
		}
	}
	return corrupted
}

func checksumShards(shards [][]byte) [][md5.Size]byte {
	sums := make([][md5.Size]byte, len(shards))
	for i, shard := range shards {
		sums[i] = md5.Sum(shard)
	}
	return sums
}
