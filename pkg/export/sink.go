package export

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/storygraph/pkg/errors"
)

// Sink stores exported bytes under a name and returns where they went.
type Sink interface {
	Write(ctx context.Context, name string, data []byte, contentType string) (location string, err error)
}

// FileSink writes to the local filesystem. Names are paths, relative to Dir
// when Dir is set.
type FileSink struct {
	Dir string
}

// Write stores data at name through a temporary file in the same
// directory, so readers never see a partial export.
func (s FileSink) Write(_ context.Context, name string, data []byte, _ string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidPath, "export path cannot be empty")
	}
	path := name
	if s.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(s.Dir, name)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	return path, nil
}

// ParseS3URL splits s3://bucket/key and validates both parts.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "not an s3 url: %q", raw)
	}
	bucket, key = u.Host, strings.TrimPrefix(u.Path, "/")
	if err := errors.ValidateBucketName(bucket); err != nil {
		return "", "", err
	}
	if err := errors.ValidateObjectKey(key); err != nil {
		return "", "", err
	}
	return bucket, key, nil
}

// IsS3 reports whether dest is an s3:// URL.
func IsS3(dest string) bool { return strings.HasPrefix(dest, "s3://") }

// Open resolves dest to a sink and the name to write under. s3:// URLs use
// cfg for the endpoint and credentials, with the URL's bucket; anything
// else is a file path.
func Open(dest string, cfg S3Config) (Sink, string, error) {
	if !IsS3(dest) {
		if dest == "" {
			return nil, "", errors.New(errors.ErrCodeInvalidPath, "export destination cannot be empty")
		}
		return FileSink{}, dest, nil
	}
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return nil, "", err
	}
	cfg.Bucket = bucket
	sink, err := NewS3Sink(cfg)
	if err != nil {
		return nil, "", err
	}
	return sink, key, nil
}
