package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.StorageConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// GeneratePresignedURLSimpleUpload is a func that generates a presigned url for a simple upload
func (a *Adapter) GeneratePresignedURLSimpleUpload(ctx context.Context, fileKey string, contentType string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedPutObject(ctx, a.config.BucketName, fileKey, a.config.SimplePresignedDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.SimplePresignedDuration)
	return presignedURL.String(), &expiresAt, nil
}

// InitMultipartUpload inits a multi part upload
func (a *Adapter) InitMultipartUpload(ctx context.Context, fileKey string, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, fileKey, opts)
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return uploadID, nil
}

// GeneratePresignedURLForPart generates presigned url for a part
func (a *Adapter) GeneratePresignedURLForPart(ctx context.Context, fileKey string, partNumber int, uploadID string) (string, *time.Time, error) {
	reqParams := make(url.Values)
	reqParams.Set("partNumber", strconv.Itoa(partNumber))
	reqParams.Set("uploadId", uploadID)

	presignedURL, err := a.core.Presign(ctx, http.MethodPut, a.config.BucketName, fileKey, a.config.PartPresignedDuration, reqParams)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}

	expiresAt := time.Now().Add(a.config.PartPresignedDuration)
	return presignedURL.String(), &expiresAt, nil
}

// CompleteMultipartUpload marks the minio multipart as complete
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, fileKey string, uploadID string, parts []domain.UploadPart) error {
	sorted := make([]domain.UploadPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completeParts := make([]minio.CompletePart, 0, len(sorted))
	for _, part := range sorted {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	_, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, fileKey, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", mapError(err))
	}

	return nil
}

// ListPartsPaginated lists uploaded parts with pagination
func (a *Adapter) ListPartsPaginated(ctx context.Context, fileKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	if maxParts <= 0 || maxParts > 1000 {
		maxParts = 1000 //max size for minio
	}

	result, err := a.core.ListObjectParts(ctx, a.config.BucketName, fileKey, uploadID, partNumberMarker, maxParts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", mapError(err))
	}

	parts := make([]domain.UploadPart, 0, len(result.ObjectParts))
	for _, part := range result.ObjectParts {
		parts = append(parts, domain.UploadPart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	next := 0
	if result.IsTruncated {
		next = result.NextPartNumberMarker
	}
	return parts, next, nil
}

func (a *Adapter) AbortMultipartUpload(ctx context.Context, fileKey string, uploadID string) error {
	err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, fileKey, uploadID)
	if err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", mapError(err))
	}

	a.logger.Info("multipart upload aborted",
		slog.String("fileKey", fileKey),
		slog.String("uploadID", uploadID))

	return nil
}

// PutObject streams reader into fileKey, size -1 means unknown
func (a *Adapter) PutObject(ctx context.Context, fileKey string, reader io.Reader, size int64, contentType string) error {
	_, err := a.client.PutObject(ctx, a.config.BucketName, fileKey, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// GetObjectInfo retrieves obj info
func (a *Adapter) GetObjectInfo(ctx context.Context, fileKey string) (*domain.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, fileKey, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", mapError(err))
	}
	return &domain.ObjectInfo{
		Key:         info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		ETag:        strings.Trim(info.ETag, "\""),
		ModTime:     info.LastModified,
	}, nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, fileKey string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, fileKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", mapError(err))
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", fileKey),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// GeneratePresignedURLForDownload generates a presigned URL for downloading a file
func (a *Adapter) GeneratePresignedURLForDownload(ctx context.Context, fileKey string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, fileKey, a.config.DownloadSignedURLDuration, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.DownloadSignedURLDuration)

	return presignedURL.String(), &expiresAt, nil
}

// mapError translates "already gone" responses into domain errors
func mapError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return errors.Join(domain.ErrObjectNotFound, err)
	case "NoSuchUpload":
		return errors.Join(domain.ErrUploadNotFound, err)
	}
	return err
}
