package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/platform/objectstore"
)

const (
	StorageModeLocal       = "local"
	StorageModeGCS         = "gcs"
	StorageModeGCSEmulator = "gcs_emulator"
)

var (
	newLocalStore = objectstore.NewLocal
	newGCSStore   = objectstore.NewGCS
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// storageMode resolves the configured mode and reports where it came from.
func storageMode(cfg StorageConfig) (mode, source string) {
	mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode != "" {
		return mode, "env"
	}
	if strings.TrimSpace(cfg.Bucket) != "" {
		return StorageModeGCS, "bucket_configured"
	}
	return StorageModeLocal, "default"
}

// resolveObjectStore picks where uploaded syllabus PDFs are archived.
func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg StorageConfig) (objectstore.Store, error) {
	mode, source := storageMode(cfg)
	emulator := strings.TrimSpace(cfg.EmulatorHost)

	if err := validateStorageConfig(mode, cfg); err != nil {
		log.Error(
			"Object storage provider selection failed",
			"mode", mode,
			"mode_source", source,
			"emulator_host", emulator,
			"error_code", storageProviderBootstrapErrorCode(err),
			"error", err,
		)
		return nil, err
	}

	log.Info(
		"Selecting object storage provider",
		"mode", mode,
		"mode_source", source,
		"bucket", cfg.Bucket,
		"dir", cfg.Dir,
		"emulator_host", emulator,
	)

	var (
		store objectstore.Store
		err   error
	)
	switch mode {
	case StorageModeLocal:
		store, err = newLocalStore(cfg.Dir)
	case StorageModeGCS:
		store, err = newGCSStore(ctx, log, objectstore.GCSConfig{
			Bucket:          cfg.Bucket,
			CredentialsFile: cfg.CredentialsFile,
		})
	case StorageModeGCSEmulator:
		store, err = newGCSStore(ctx, log, objectstore.GCSConfig{
			Bucket:       cfg.Bucket,
			EmulatorHost: emulator,
		})
	}
	if err != nil {
		wrapped := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorConnectFailed,
			Mode:         mode,
			EmulatorHost: emulator,
			Cause:        err,
		}
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", mode,
			"mode_source", source,
			"error_code", wrapped.Code,
			"error", err,
		)
		return nil, wrapped
	}
	return store, nil
}

func validateStorageConfig(mode string, cfg StorageConfig) error {
	fail := func(code StorageProviderBootstrapErrorCode, cause error) error {
		return &StorageProviderBootstrapError{
			Code:         code,
			Mode:         mode,
			EmulatorHost: cfg.EmulatorHost,
			Cause:        cause,
		}
	}
	switch mode {
	case StorageModeLocal:
		return nil
	case StorageModeGCS:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return fail(StorageProviderBootstrapErrorMissingBucket, errors.New("SYLLABUS_BUCKET is required"))
		}
		return nil
	case StorageModeGCSEmulator:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return fail(StorageProviderBootstrapErrorMissingBucket, errors.New("SYLLABUS_BUCKET is required"))
		}
		host := strings.TrimSpace(cfg.EmulatorHost)
		if host == "" {
			return fail(StorageProviderBootstrapErrorMissingEmulatorHost, errors.New("STORAGE_EMULATOR_HOST is required"))
		}
		u, err := url.Parse(host)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fail(StorageProviderBootstrapErrorInvalidEmulatorHost, fmt.Errorf("emulator host %q must be an http(s) URL", host))
		}
		return nil
	default:
		return fail(StorageProviderBootstrapErrorInvalidMode, fmt.Errorf("unsupported object storage mode %q", mode))
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
