// Package cache mirrors OWNER_TABLE return buffers to Redis so external
// observers (the REST admin surface, mainly) can read a consistent
// snapshot of an opcode's last return value without racing the next
// dispatch to that opcode, which overwrites the live, table-owned buffer
// in place.
package cache

import (
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	dispatch "github.com/sharedcode-labs/dispatchtable"
)

// Options holds the Redis connection parameters a Mirror needs.
type Options struct {
	// Address is the host:port of the Redis server/cluster.
	Address string
	// Password is the password used to authenticate.
	Password string
	// DB is the database index to select.
	DB int
}

var (
	client *redis.Client
	mux    sync.Mutex
)

// OpenConnection initializes the package-level shared Redis client used by
// NewMirror. Subsequent calls are no-ops once a client exists.
func OpenConnection(options Options) (*redis.Client, error) {
	if client != nil {
		return client, nil
	}
	mux.Lock()
	defer mux.Unlock()
	if client != nil {
		return client, nil
	}
	client = redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})
	return client, nil
}

// CloseConnection closes and clears the shared client, if one is open.
func CloseConnection() error {
	if client == nil {
		return nil
	}
	mux.Lock()
	defer mux.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// Mirror writes a copy of an opcode's return buffer to Redis after every
// OWNER_TABLE call that reaches its handler, whatever status the handler
// returns. It never participates in the dispatch
// pipeline itself — Table.Call always reads and writes the table-owned
// buffer directly; mirroring is observability layered on top, not a second
// source of truth.
type Mirror struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMirror returns a Mirror backed by the shared Redis client opened by
// OpenConnection, which must be called first.
func NewMirror(ttl time.Duration) *Mirror {
	return &Mirror{client: client, ttl: ttl}
}

// NewMirrorWithOptions opens its own Redis client from options, useful for
// isolating the mirror from any other Redis consumer in the process.
func NewMirrorWithOptions(options Options, ttl time.Duration) *Mirror {
	c := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})
	return &Mirror{client: c, ttl: ttl}
}

// Put stores a snapshot of buf under the given hex opcode key.
func (m *Mirror) Put(ctx context.Context, opcodeKey string, buf []byte) error {
	if m.client == nil {
		return fmt.Errorf("cache: redis connection is not open; can't mirror return buffer")
	}
	return m.client.Set(ctx, mirrorKey(opcodeKey), buf, m.ttl).Err()
}

// Get retrieves the last mirrored snapshot for opcodeKey. The bool result
// is false when nothing has been mirrored yet (or the TTL expired).
func (m *Mirror) Get(ctx context.Context, opcodeKey string) ([]byte, bool, error) {
	if m.client == nil {
		return nil, false, fmt.Errorf("cache: redis connection is not open; can't read mirrored return buffer")
	}
	b, err := m.client.Get(ctx, mirrorKey(opcodeKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Observer returns a dispatch.ObserverFunc suitable for Table.Observe that
// mirrors every OWNER_TABLE return buffer to Redis under its hex opcode key.
// OWNER_FUNC operations are skipped: their return buffer belongs to the
// caller, not the table, so there is nothing stable left to mirror once
// Call returns.
func (m *Mirror) Observer() dispatch.ObserverFunc {
	return func(_ any, op *dispatch.OpDesc, ret []byte, status int32) {
		if op.RetvalOwner != dispatch.OwnerTable || ret == nil {
			return
		}
		key := dispatch.EncodeKey(op.Opcode)
		if err := m.Put(context.Background(), key, ret); err != nil {
			log.Warn("dispatch/cache: mirror put failed", "opcode", key, "error", err)
		}
	}
}

func mirrorKey(opcodeKey string) string {
	return "dispatch:ret:" + opcodeKey
}
