package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Adapter talks to any S3 compatible backend through aws-sdk-go-v2
type Adapter struct {
	client    *s3.Client
	presigner *s3.PresignClient
	config    config.StorageConfig
	logger    *slog.Logger
}

// NewAdapter returns Adapter, creating the bucket when missing
func NewAdapter(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Adapter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg))
			o.UsePathStyle = true
		}
	})

	a := &Adapter{
		client:    client,
		presigner: s3.NewPresignClient(client),
		config:    cfg,
		logger:    logger,
	}

	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func endpointURL(cfg config.StorageConfig) string {
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

func (a *Adapter) ensureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.config.BucketName)})
	if err == nil {
		return nil
	}
	if code := errorCode(err); code != "NotFound" && code != "NoSuchBucket" {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(a.config.BucketName)}
	if a.config.Region != "" && a.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(a.config.Region),
		}
	}
	if _, err := a.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (a *Adapter) GeneratePresignedURLSimpleUpload(ctx context.Context, fileKey string, contentType string) (string, *time.Time, error) {
	request, err := a.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(a.config.SimplePresignedDuration))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.SimplePresignedDuration)
	return request.URL, &expiresAt, nil
}

func (a *Adapter) InitMultipartUpload(ctx context.Context, fileKey string, contentType string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	result, err := a.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return aws.ToString(result.UploadId), nil
}

func (a *Adapter) GeneratePresignedURLForPart(ctx context.Context, fileKey string, partNumber int, uploadID string) (string, *time.Time, error) {
	request, err := a.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(a.config.BucketName),
		Key:        aws.String(fileKey),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
	}, s3.WithPresignExpires(a.config.PartPresignedDuration))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}

	expiresAt := time.Now().Add(a.config.PartPresignedDuration)
	return request.URL, &expiresAt, nil
}

func (a *Adapter) ListPartsPaginated(ctx context.Context, fileKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	if maxParts <= 0 || maxParts > 1000 {
		maxParts = 1000
	}

	input := &s3.ListPartsInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(fileKey),
		UploadId: aws.String(uploadID),
		MaxParts: aws.Int32(int32(maxParts)),
	}
	if partNumberMarker > 0 {
		input.PartNumberMarker = aws.String(strconv.Itoa(partNumberMarker))
	}

	result, err := a.client.ListParts(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", mapError(err))
	}

	parts := make([]domain.UploadPart, 0, len(result.Parts))
	for _, part := range result.Parts {
		parts = append(parts, domain.UploadPart{
			PartNumber: int(aws.ToInt32(part.PartNumber)),
			ETag:       strings.Trim(aws.ToString(part.ETag), "\""),
		})
	}

	next := 0
	if aws.ToBool(result.IsTruncated) {
		next, err = strconv.Atoi(aws.ToString(result.NextPartNumberMarker))
		if err != nil {
			return nil, 0, fmt.Errorf("invalid next part marker: %w", err)
		}
	}
	return parts, next, nil
}

func (a *Adapter) CompleteMultipartUpload(ctx context.Context, fileKey string, uploadID string, parts []domain.UploadPart) error {
	sorted := make([]domain.UploadPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completed := make([]types.CompletedPart, len(sorted))
	for i, part := range sorted {
		completed[i] = types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(int32(part.PartNumber)),
		}
	}

	_, err := a.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(a.config.BucketName),
		Key:             aws.String(fileKey),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", mapError(err))
	}
	return nil
}

func (a *Adapter) AbortMultipartUpload(ctx context.Context, fileKey string, uploadID string) error {
	_, err := a.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(fileKey),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", mapError(err))
	}

	a.logger.Info("multipart upload aborted",
		slog.String("fileKey", fileKey),
		slog.String("uploadID", uploadID))
	return nil
}

func (a *Adapter) PutObject(ctx context.Context, fileKey string, reader io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
		Body:   reader,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (a *Adapter) GetObjectInfo(ctx context.Context, fileKey string) (*domain.ObjectInfo, error) {
	head, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", mapError(err))
	}

	return &domain.ObjectInfo{
		Key:         fileKey,
		Size:        aws.ToInt64(head.ContentLength),
		ContentType: aws.ToString(head.ContentType),
		ETag:        strings.Trim(aws.ToString(head.ETag), "\""),
		ModTime:     aws.ToTime(head.LastModified),
	}, nil
}

func (a *Adapter) DeleteObject(ctx context.Context, fileKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", mapError(err))
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", fileKey),
		slog.String("bucket", a.config.BucketName))
	return nil
}

func (a *Adapter) GeneratePresignedURLForDownload(ctx context.Context, fileKey string) (string, *time.Time, error) {
	request, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(a.config.DownloadSignedURLDuration))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.DownloadSignedURLDuration)
	return request.URL, &expiresAt, nil
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func mapError(err error) error {
	switch errorCode(err) {
	case "NoSuchKey", "NotFound":
		return errors.Join(domain.ErrObjectNotFound, err)
	case "NoSuchUpload":
		return errors.Join(domain.ErrUploadNotFound, err)
	}
	return err
}
