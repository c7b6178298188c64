package store

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio archives list snapshots to an S3-compatible bucket. Snapshots are
// write-only from the server's point of view; retrieval is an operator
// concern.
type Minio struct {
	client *minio.Client
	bucket string
}

func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &Minio{client: client, bucket: bucket}, nil
}

// Archive uploads one JSON snapshot of a user's lists under a timestamped key.
func (s *Minio) Archive(ctx context.Context, userID string, snapshot []byte) error {
	key := fmt.Sprintf("snapshots/%s/%d.json", userID, time.Now().UnixMilli())
	reader := bytes.NewReader(snapshot)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(snapshot)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}
