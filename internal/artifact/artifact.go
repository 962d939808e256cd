// Package artifact archives report files to S3-compatible object storage.
package artifact

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rsclarke/mobsf/internal/config"
)

// Store uploads files into one bucket.
type Store struct {
	mc     *minio.Client
	bucket string
}

// New returns a Store for cfg, or nil when no endpoint is configured.
func New(cfg config.S3Config) (*Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &Store{mc: mc, bucket: cfg.Bucket}, nil
}

// Archive uploads each file under prefix/<base name> and returns the keys.
func (s *Store) Archive(ctx context.Context, prefix string, files ...string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := ObjectKey(prefix, f)
		_, err := s.mc.FPutObject(ctx, s.bucket, key, f, minio.PutObjectOptions{
			ContentType: ContentType(f),
		})
		if err != nil {
			return keys, fmt.Errorf("archive %s to %s/%s: %w", f, s.bucket, key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ObjectKey is the key a file is stored under.
func ObjectKey(prefix, file string) string {
	return path.Join(prefix, filepath.Base(file))
}

// ContentType guesses a MIME type from the file extension.
func ContentType(file string) string {
	switch ext := filepath.Ext(file); ext {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
