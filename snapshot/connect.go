// Package snapshot exports and imports a Table's descriptor *shape* —
// opcode, name, argument shapes, return shape, owner — to and from S3
// (or an S3-compatible endpoint such as MinIO). It never carries handler
// functions or call state: a snapshot describes what a table looked like,
// not what it did, and re-importing one gives you a table whose handlers
// must still be bound via Table.FillDesc before it can dispatch.
package snapshot

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config points at an S3-compatible endpoint.
type Config struct {
	// HostEndpointURL, e.g. "http://127.0.0.1:9000" for a local MinIO.
	HostEndpointURL string
	// Region, e.g. "us-east-1".
	Region   string
	Username string
	Password string
}

// Connect builds an S3 client against config's endpoint.
func Connect(config Config) *s3.Client {
	return s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.HostEndpointURL)
		o.Credentials = credentials.NewStaticCredentialsProvider(config.Username, config.Password, "")
	})
}
