package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// cloudStorage stores blobs as objects in a Cloud Storage bucket.
type cloudStorage struct {
	client    *gcs.Client
	bucket    *gcs.BucketHandle
	name      string
	publicURL string
	logger    *slog.Logger
}

// NewGCS creates Cloud Storage backed blob storage for cfg.Bucket.
// Credentials are resolved through Application Default Credentials unless opts override them.
func NewGCS(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...option.ClientOption) (System, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &cloudStorage{
		client:    client,
		bucket:    client.Bucket(cfg.Bucket),
		name:      cfg.Bucket,
		publicURL: cfg.PublicURL,
		logger:    logger.With("system", "storage", "backend", BackendGCS),
	}, nil
}

func (c *cloudStorage) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting storage system", "bucket", c.name)

	lc.OnStartup(func() {
		if _, err := c.bucket.Attrs(lc.Context()); err != nil {
			c.logger.Error("bucket check failed", "bucket", c.name, "error", err)
			return
		}
		c.logger.Info("bucket reachable", "bucket", c.name)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("gcs client close failed", "error", err)
		}
	})

	return nil
}

func (c *cloudStorage) Store(ctx context.Context, key string, data []byte) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}

	w := c.bucket.Object(cleaned).NewWriter(ctx)
	w.ContentType = http.DetectContentType(data)

	if _, err := w.Write(data); err != nil {
		w.Close()
		return mapGCSError(err, "write object")
	}
	if err := w.Close(); err != nil {
		return mapGCSError(err, "close object writer")
	}

	return nil
}

func (c *cloudStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	r, err := c.bucket.Object(cleaned).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError(err, "open object")
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}

	return data, nil
}

func (c *cloudStorage) Delete(ctx context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}

	if err := c.bucket.Object(cleaned).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil
		}
		return mapGCSError(err, "delete object")
	}

	return nil
}

func (c *cloudStorage) Validate(ctx context.Context, key string) (bool, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	if _, err := c.bucket.Object(cleaned).Attrs(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, mapGCSError(err, "object attrs")
	}

	return true, nil
}

func (c *cloudStorage) URL(key string) string {
	return publicURL(c.publicURL, key)
}

func mapGCSError(err error, op string) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		return ErrPermissionDenied
	}
	return fmt.Errorf("%s: %w", op, err)
}
