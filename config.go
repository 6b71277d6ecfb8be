package dispatch

import (
	"encoding/json"
	"os"
)

// Configuration wires together everything a cmd/dispatchd-style process
// needs to stand up a Table and its ambient stack from one JSON file:
// Redis mirroring, Cassandra audit, S3 snapshot storage, and erasure-coding
// policy. Okta auth settings are not part of it: dispatch/restapi reads
// them from the environment. The Table itself and its Ops hook are
// built by the caller — Configuration only carries connection and policy
// parameters, never a live connection.
type Configuration struct {
	Redis     RedisConfig     `json:"redis"`
	Cassandra CassandraConfig `json:"cassandra"`
	S3        S3Config        `json:"s3"`
	Erasure   ErasureConfig   `json:"erasure"`
}

// RedisConfig mirrors dispatch/cache.Options without importing that
// package, so the root package can be used on its own without pulling in
// go-redis for callers who never attach a Mirror.
type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// CassandraConfig mirrors dispatch/audit.Config's connection parameters.
type CassandraConfig struct {
	ClusterHosts      []string `json:"cluster_hosts"`
	Keyspace          string   `json:"keyspace"`
	ConnectionTimeout int      `json:"connection_timeout_seconds"`
}

// S3Config mirrors dispatch/snapshot.Config.
type S3Config struct {
	HostEndpointURL string `json:"host_endpoint_url"`
	Region          string `json:"region"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	BucketName      string `json:"bucket_name"`
}

// ErasureConfig mirrors dispatch/integrity.Config.
type ErasureConfig struct {
	DataShardsCount       int  `json:"data_shards_count"`
	ParityShardsCount     int  `json:"parity_shards_count"`
	RepairCorruptedShards bool `json:"repair_corrupted_shards"`
}

// LoadConfiguration reads and JSON-decodes a Configuration from filename.
func LoadConfiguration(filename string) (Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Configuration{}, err
	}
	var c Configuration
	if err := json.Unmarshal(data, &c); err != nil {
		return Configuration{}, err
	}
	return c, nil
}
