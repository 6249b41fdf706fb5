package export

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/errors"
)

// S3Config locates an S3-compatible store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// objectStore is the subset of *minio.Client the sink uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ objectStore = (*minio.Client)(nil)

// S3Sink writes objects to one bucket, creating it on first use.
type S3Sink struct {
	store  objectStore
	bucket string
	region string

	mu    sync.Mutex
	ready bool
}

// NewS3Sink connects to the store described by cfg.
func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "s3 endpoint is required")
	}
	access, secret := strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "s3 access key and secret key are required")
	}
	if err := errors.ValidateBucketName(cfg.Bucket); err != nil {
		return nil, err
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.Secure,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "init s3 client")
	}
	return newS3Sink(client, cfg.Bucket, region), nil
}

func newS3Sink(store objectStore, bucket, region string) *S3Sink {
	return &S3Sink{store: store, bucket: bucket, region: region}
}

// Bucket returns the target bucket.
func (s *S3Sink) Bucket() string { return s.bucket }

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

// Write uploads data as key and returns its s3:// location. Transport
// failures are retried with backoff.
func (s *S3Sink) Write(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := errors.ValidateObjectKey(key); err != nil {
		return "", err
	}
	location := "s3://" + s.bucket + "/" + key

	err := cache.RetryWithBackoff(ctx, func() error {
		if err := s.ensureBucket(ctx); err != nil {
			return retryable(err)
		}
		_, err := s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		return retryable(err)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "upload %s", location)
	}
	return location, nil
}

// retryable marks err for retry unless it is a cancellation or a
// permission problem that another attempt will not fix.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "InvalidBucketName":
		return err
	}
	return cache.Retryable(err)
}
