package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appConfig "s3zipper/config"
	"s3zipper/internal/models"
)

// ErrNotFound is matched by errors.Is when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

type Client struct {
	s3Client *s3.Client
	uploader *manager.Uploader
	config   *appConfig.Config
}

func New(cfg *appConfig.Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &Client{
		s3Client: s3Client,
		uploader: newUploader(s3Client, cfg),
		config:   cfg,
	}, nil
}

func newUploader(s3Client *s3.Client, cfg *appConfig.Config) *manager.Uploader {
	return manager.NewUploader(s3Client, func(u *manager.Uploader) {
		partSize := int64(cfg.UploadPartSizeMB) * 1024 * 1024
		if partSize < manager.MinUploadPartSize {
			partSize = manager.MinUploadPartSize
		}
		u.PartSize = partSize

		if cfg.UploadConcurrency > 0 {
			u.Concurrency = cfg.UploadConcurrency
		}
		// A failed stream must not leave completed parts behind.
		u.LeavePartsOnError = false
	})
}

func (c *Client) Head(ctx context.Context, bucket, key string) (*models.ObjectMetadata, error) {
	out, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapError("head object", bucket, key, err)
	}

	return &models.ObjectMetadata{
		Bucket:             bucket,
		Key:                key,
		Size:               aws.ToInt64(out.ContentLength),
		ContentType:        aws.ToString(out.ContentType),
		ContentDisposition: aws.ToString(out.ContentDisposition),
		Metadata:           out.Metadata,
		LastModified:       aws.ToTime(out.LastModified),
	}, nil
}

// GetStream returns the live object body. The caller must close it.
func (c *Client) GetStream(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapError("get object", bucket, key, err)
	}
	return out.Body, nil
}

// PutStream uploads body as it is read. Large bodies go through multipart upload;
// a read error from body aborts the upload.
func (c *Client) PutStream(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return wrapError("upload object", bucket, key, err)
	}
	return nil
}

func (c *Client) PutTag(ctx context.Context, bucket, key, tagKey, tagValue string) error {
	_, err := c.s3Client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Tagging: &types.Tagging{
			TagSet: []types.Tag{
				{Key: aws.String(tagKey), Value: aws.String(tagValue)},
			},
		},
	})
	if err != nil {
		return wrapError("tag object", bucket, key, err)
	}
	return nil
}

func wrapError(op, bucket, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("failed to %s s3://%s/%s: %w: %w", op, bucket, key, ErrNotFound, err)
	}
	return fmt.Errorf("failed to %s s3://%s/%s: %w", op, bucket, key, err)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}
