package snapshot

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// BucketManager creates and removes the bucket a Store reads from and
// writes to. Most deployments provision the bucket once out-of-band;
// this exists for integration tests and one-off setup tooling.
type BucketManager struct {
	client *s3.Client
	region string
}

// NewBucketManager returns a BucketManager bound to client.
func NewBucketManager(client *s3.Client, region string) (*BucketManager, error) {
	if client == nil {
		return nil, fmt.Errorf("dispatch/snapshot: s3 client can't be nil")
	}
	return &BucketManager{client: client, region: region}, nil
}

// Create provisions bucketName.
func (m *BucketManager) Create(ctx context.Context, bucketName string) error {
	_, err := m.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(m.region),
		},
	})
	if err != nil {
		return fmt.Errorf("dispatch/snapshot: couldn't create bucket %s in region %s: %w", bucketName, m.region, err)
	}
	return nil
}

// Remove deletes bucketName.
func (m *BucketManager) Remove(ctx context.Context, bucketName string) error {
	_, err := m.client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return fmt.Errorf("dispatch/snapshot: couldn't remove bucket %s: %w", bucketName, err)
	}
	return nil
}
