// Command dispatchd wires a dispatch.Table together with its ambient stack
// — size validation, Redis mirroring, Cassandra audit, Reed-Solomon
// integrity guarding — and serves it over the admin REST API. It is an
// example of how the pieces fit together, not a deployable service: the
// two sample operations it registers exist only to give the wiring
// something to dispatch.
package main

import (
	"context"
	log "log/slog"
	"os"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/audit"
	"github.com/sharedcode-labs/dispatchtable/cache"
	"github.com/sharedcode-labs/dispatchtable/integrity"
	"github.com/sharedcode-labs/dispatchtable/restapi"
	"github.com/sharedcode-labs/dispatchtable/snapshot"
	"github.com/sharedcode-labs/dispatchtable/validate"
)

// shapeSnapshotKey is the object name the registered operations' shapes are
// exported to and imported from.
const shapeSnapshotKey = "dispatchd/ops.json"

func main() {
	dispatch.ConfigureLogging()

	configPath := os.Getenv("DISPATCH_CONFIG")
	if configPath == "" {
		configPath = "dispatchd.json"
	}
	cfg, err := dispatch.LoadConfiguration(configPath)
	if err != nil {
		log.Warn("dispatchd: couldn't load configuration, falling back to defaults", "path", configPath, "error", err)
		cfg = defaultConfiguration()
	}

	ops := buildValidator()
	table := dispatch.New(ops)
	if err := table.InsertAll(sampleOps()); err != nil {
		log.Error("dispatchd: failed to register sample operations", "error", err)
		os.Exit(1)
	}

	if store := maybeOpenSnapshotStore(cfg.S3); store != nil {
		bootstrapShapes(store)
		exportShapes(table, store)
	}

	if mirror := maybeOpenCache(cfg.Redis); mirror != nil {
		table.Observe(mirror.Observer())
	}
	if logger := maybeOpenAudit(cfg.Cassandra); logger != nil {
		table.Observe(logger.Observer())
	}
	if guard := buildGuard(cfg.Erasure); guard != nil {
		table.Observe(guard.Observer())
	}

	addr := os.Getenv("DISPATCH_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}
	log.Info("dispatchd: serving admin API", "addr", addr)
	if err := restapi.Run(table, addr); err != nil {
		log.Error("dispatchd: server exited", "error", err)
		os.Exit(1)
	}
}

func defaultConfiguration() dispatch.Configuration {
	return dispatch.Configuration{
		Redis:     dispatch.RedisConfig{Address: "localhost:6379"},
		Cassandra: dispatch.CassandraConfig{ClusterHosts: []string{"localhost:9042"}, Keyspace: "dispatch"},
		Erasure:   dispatch.ErasureConfig{DataShardsCount: 4, ParityShardsCount: 2, RepairCorruptedShards: true},
	}
}

// buildValidator composes the structural size check with a CEL rule set.
// The size check runs first since it's the cheap, always-applicable one;
// the CEL rules are opt-in per opcode and see already shape-correct args.
func buildValidator() validate.Chain {
	cel := validate.NewCELValidator(map[string]any{"maxSum": 1 << 20})
	return validate.Chain{validate.SizeValidator{}, cel}
}

func maybeOpenCache(cfg dispatch.RedisConfig) *cache.Mirror {
	if cfg.Address == "" {
		return nil
	}
	if _, err := cache.OpenConnection(cache.Options{Address: cfg.Address, Password: cfg.Password, DB: cfg.DB}); err != nil {
		log.Warn("dispatchd: redis connection failed, mirroring disabled", "error", err)
		return nil
	}
	return cache.NewMirror(0)
}

func maybeOpenAudit(cfg dispatch.CassandraConfig) *audit.Logger {
	if len(cfg.ClusterHosts) == 0 {
		return nil
	}
	if _, err := audit.OpenConnection(audit.Config{ClusterHosts: cfg.ClusterHosts, Keyspace: cfg.Keyspace}); err != nil {
		log.Warn("dispatchd: cassandra connection failed, audit logging disabled", "error", err)
		return nil
	}
	return audit.NewLogger()
}

func buildGuard(cfg dispatch.ErasureConfig) *integrity.Guard {
	if cfg.DataShardsCount == 0 {
		return nil
	}
	return integrity.NewGuard(integrity.Config{
		DataShardsCount:       cfg.DataShardsCount,
		ParityShardsCount:     cfg.ParityShardsCount,
		RepairCorruptedShards: cfg.RepairCorruptedShards,
	})
}

// maybeOpenSnapshotStore connects to the S3-compatible endpoint named in
// cfg, if one is configured, and returns a Store for the configured bucket.
func maybeOpenSnapshotStore(cfg dispatch.S3Config) *snapshot.Store {
	if cfg.BucketName == "" {
		return nil
	}
	client := snapshot.Connect(snapshot.Config{
		HostEndpointURL: cfg.HostEndpointURL,
		Region:          cfg.Region,
		Username:        cfg.Username,
		Password:        cfg.Password,
	})
	return snapshot.NewStore(client, cfg.BucketName)
}

// bootstrapShapes attempts to read back a previously exported descriptor
// catalogue. It only logs the result: the sample table's handlers are bound
// in-process by sampleOps, so an imported Shape can't be inserted as-is
// (its Handler is nil, per Shape.ToOpDesc) without a name-to-handler lookup
// this command doesn't need — the import here demonstrates that the round
// trip works, the way an operator rehydrating a fresh process would use it.
func bootstrapShapes(store *snapshot.Store) {
	shapes, err := store.Import(context.Background(), shapeSnapshotKey)
	if err != nil {
		log.Info("dispatchd: no prior snapshot to import", "key", shapeSnapshotKey, "error", err)
		return
	}
	log.Info("dispatchd: imported descriptor snapshot", "key", shapeSnapshotKey, "count", len(shapes))
}

// exportShapes writes the current table's registered descriptor shapes to
// the snapshot store, so a later process can rehydrate the catalogue via
// bootstrapShapes.
func exportShapes(table *dispatch.Table, store *snapshot.Store) {
	shapes := snapshot.ShapesOf(table, table.Opcodes())
	if err := store.Export(context.Background(), shapeSnapshotKey, shapes); err != nil {
		log.Warn("dispatchd: snapshot export failed", "key", shapeSnapshotKey, "error", err)
		return
	}
	log.Info("dispatchd: exported descriptor snapshot", "key", shapeSnapshotKey, "count", len(shapes))
}
