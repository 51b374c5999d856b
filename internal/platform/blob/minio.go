// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/minhdao/restora/internal/platform/constants"
)

// startupCheckTimeout bounds the bucket existence probe at construction time.
const startupCheckTimeout = 5 * time.Second

// MinioStorage is the S3-compatible [ObjectStorage] implementation.
//
// It works against MinIO, Cloudflare R2, Supabase Storage, or AWS S3 —
// anything speaking the S3 wire protocol.
type MinioStorage struct {
	client       *minio.Client
	bucket       string
	publicPrefix string
	logger       *slog.Logger
}

// MinioConfig carries the connection settings for [NewMinioStorage].
type MinioConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PublicPrefix is the public-object URL prefix for the bucket,
	// without a trailing slash (e.g. "https://cdn.restora.app/storage/v1/object/public/restora-media").
	PublicPrefix string
}

// NewMinioStorage connects to the S3-compatible endpoint and verifies that
// the configured bucket exists.
func NewMinioStorage(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: failed to create s3 client: %w", err)
	}

	// Fail fast on misconfiguration rather than at first upload.
	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("blob: bucket check failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("blob: bucket %q does not exist", cfg.Bucket)
	}

	logger.Info("blob storage connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return &MinioStorage{
		client:       client,
		bucket:       cfg.Bucket,
		publicPrefix: strings.TrimSuffix(cfg.PublicPrefix, "/"),
		logger:       logger,
	}, nil
}

// Put implements [ObjectStorage].
func (storage *MinioStorage) Put(ctx context.Context, path string, data []byte, contentType string) error {
	putCtx, cancel := context.WithTimeout(ctx, constants.StoragePutTimeout)
	defer cancel()

	_, err := storage.client.PutObject(putCtx, storage.bucket, path,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("blob: put %s: %w", path, err)
	}

	return nil
}

// Get implements [ObjectStorage].
func (storage *MinioStorage) Get(ctx context.Context, path string) ([]byte, string, error) {
	getCtx, cancel := context.WithTimeout(ctx, constants.StorageGetTimeout)
	defer cancel()

	object, err := storage.client.GetObject(getCtx, storage.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("blob: get %s: %w", path, err)
	}
	defer func() { _ = object.Close() }()

	// GetObject is lazy; absence surfaces on the first read.
	data, err := io.ReadAll(object)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("blob: read %s: %w", path, err)
	}

	info, err := object.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("blob: stat %s: %w", path, err)
	}

	return data, info.ContentType, nil
}

// Remove implements [ObjectStorage].
//
// S3 deletes are idempotent (removing a missing key succeeds), so the
// object is stat'ed first to honor the [ErrNotFound] contract.
func (storage *MinioStorage) Remove(ctx context.Context, path string) error {
	removeCtx, cancel := context.WithTimeout(ctx, constants.StorageRemoveTimeout)
	defer cancel()

	if _, err := storage.client.StatObject(removeCtx, storage.bucket, path, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blob: stat %s: %w", path, err)
	}

	if err := storage.client.RemoveObject(removeCtx, storage.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("blob: remove %s: %w", path, err)
	}

	return nil
}

// PublicURL implements [ObjectStorage].
func (storage *MinioStorage) PublicURL(path string) string {
	return storage.publicPrefix + "/" + path
}

// Check probes the bucket, for readiness endpoints.
func (storage *MinioStorage) Check(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()

	exists, err := storage.client.BucketExists(checkCtx, storage.bucket)
	if err != nil {
		return fmt.Errorf("blob: bucket check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("blob: bucket %q does not exist", storage.bucket)
	}
	return nil
}

// isNoSuchKey reports whether err is the S3 "object missing" response.
func isNoSuchKey(err error) bool {
	response := minio.ToErrorResponse(err)
	return response.Code == "NoSuchKey" || response.StatusCode == 404
}
