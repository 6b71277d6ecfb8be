package integrity

import "testing"

func testConfig() Config {
	return Config{DataShardsCount: 4, ParityShardsCount: 2, RepairCorruptedShards: true}
}

func TestProtectorVerifyIntactBuffer(t *testing.T) {
	buf := []byte("0123456789abcdef")
	p, err := NewProtector(testConfig(), len(buf))
	if err != nil {
		t.Fatalf("NewProtector: %v", err)
	}
	if err := p.Snapshot(buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	ok, err := p.Verify(buf)
	if err != nil || !ok {
		t.Fatalf("expected an untouched buffer to verify clean, got ok=%v err=%v", ok, err)
	}
}

func TestProtectorRepairsCorruptedShard(t *testing.T) {
	original := []byte("0123456789abcdef")
	buf := append([]byte(nil), original...)
	p, err := NewProtector(testConfig(), len(buf))
	if err != nil {
		t.Fatalf("NewProtector: %v", err)
	}
	if err := p.Snapshot(buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// Flip a byte in place without shrinking the slice or nilling a shard,
	// simulating bit rot rather than a dropped shard.
	buf[0] ^= 0xFF

	ok, err := p.Verify(buf)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected a single corrupted shard to be repaired")
	}
	if string(buf) != string(original) {
		t.Errorf("repaired buffer = %q, want %q", buf, original)
	}
}

func TestProtectorReportsWithoutRepairWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RepairCorruptedShards = false
	buf := []byte("0123456789abcdef")
	p, err := NewProtector(cfg, len(buf))
	if err != nil {
		t.Fatalf("NewProtector: %v", err)
	}
	if err := p.Snapshot(buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	buf[0] ^= 0xFF

	ok, err := p.Verify(buf)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Errorf("expected Verify to report corruption rather than silently repair it")
	}
}

func TestProtectorVerifyBeforeSnapshotFails(t *testing.T) {
	p, err := NewProtector(testConfig(), 16)
	if err != nil {
		t.Fatalf("NewProtector: %v", err)
	}
	if _, err := p.Verify(make([]byte, 16)); err == nil {
		t.Errorf("expected Verify before any Snapshot to fail")
	}
}

func TestProtectorSizeMismatch(t *testing.T) {
	p, err := NewProtector(testConfig(), 16)
	if err != nil {
		t.Fatalf("NewProtector: %v", err)
	}
	if err := p.Snapshot(make([]byte, 16)); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := p.Verify(make([]byte, 8)); err == nil {
		t.Errorf("expected a size-mismatched buffer to fail Verify")
	}
}
