package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config points the S3 backend at a bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBase is prepended to the object key to form the returned URL.
	PublicBase string
}

// S3Backend stores uploads in an S3-compatible bucket, keyed by content
// digest so re-uploads of the same bytes overwrite in place.
type S3Backend struct {
	client *minio.Client
	cfg    S3Config
}

func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}
	return &S3Backend{client: client, cfg: cfg}, nil
}

func (b *S3Backend) Store(ctx context.Context, f File, digest string) (string, error) {
	key := digest + path.Ext(f.Name)
	_, err := b.client.PutObject(ctx, b.cfg.Bucket, key,
		bytes.NewReader(f.Data), int64(len(f.Data)),
		minio.PutObjectOptions{ContentType: f.MIME})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return b.cfg.PublicBase + "/" + key, nil
}
