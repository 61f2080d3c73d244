package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/campusai/teachassist/internal/platform/logger"
)

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	// EmulatorHost points the client at a fake-gcs-server instance.
	EmulatorHost string
}

type gcsStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewGCS(ctx context.Context, log *logger.Logger, cfg GCSConfig) (Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing SYLLABUS_BUCKET")
	}
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.EmulatorHost) != "":
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		opts = append(opts, option.WithoutAuthentication())
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile), option.WithScopes(storage.ScopeReadWrite))
	default:
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("Object storage initialized", "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &gcsStore{
		log:    log.With("service", "GCSStore"),
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *gcsStore) Put(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if strings.HasSuffix(strings.ToLower(key), ".pdf") {
		w.ContentType = "application/pdf"
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	s.log.Debug("Uploaded object", "key", key)
	return nil
}

func (s *gcsStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object: %w", err)
	}
	return rc, nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete GCS object: %w", err)
	}
	return nil
}

func (s *gcsStore) Close() error { return s.client.Close() }
