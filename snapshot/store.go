package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const largeSnapshotMinSize = 10 * 1024 * 1024

// Store reads and writes JSON-encoded []Shape documents to an S3 bucket.
type Store struct {
	client     *s3.Client
	bucketName string
}

// NewStore returns a Store that reads and writes objects in bucketName.
func NewStore(client *s3.Client, bucketName string) *Store {
	return &Store{client: client, bucketName: bucketName}
}

// Export marshals shapes as JSON and writes them to the object named key.
// Objects at or above largeSnapshotMinSize go through the multipart
// uploader; smaller ones use a single PutObject, the same split the pack's
// S3 bucket wrapper uses for its blob store.
func (s *Store) Export(ctx context.Context, key string, shapes []Shape) error {
	data, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("dispatch/snapshot: marshal shapes: %w", err)
	}

	if len(data) >= largeSnapshotMinSize {
		uploader := manager.NewUploader(s.client, func(u *manager.Uploader) {
			u.PartSize = largeSnapshotMinSize
		})
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return fmt.Errorf("dispatch/snapshot: upload %s: %w", key, err)
		}
		return nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("dispatch/snapshot: put %s: %w", key, err)
	}
	return nil
}

// Import reads and JSON-decodes the shapes stored under key.
func (s *Store) Import(ctx context.Context, key string) ([]Shape, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch/snapshot: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("dispatch/snapshot: read %s: %w", key, err)
	}

	var shapes []Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		return nil, fmt.Errorf("dispatch/snapshot: unmarshal %s: %w", key, err)
	}
	return shapes, nil
}
