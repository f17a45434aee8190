// Package artifacts uploads failure evidence (screenshots, page HTML) to an
// S3-compatible bucket. For tests, use gofakes3 via TestStore.
package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Store writes artifacts under a per-run prefix in one bucket.
type Store struct {
	s3Client   *s3.Client
	bucketName string
	prefix     string
}

// Config holds the configuration for creating a Store.
type Config struct {
	// Endpoint is the S3 endpoint URL. Leave empty to use default AWS S3.
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// Prefix is prepended to every key, e.g. "calnav".
	Prefix string
	// UsePathStyle is required by gofakes3 and most self-hosted S3 servers.
	UsePathStyle bool
}

// New creates a Store with the given configuration.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.BucketName == "" {
		return nil, errs.New(errs.InvalidArgument, "artifact bucket name is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "load AWS config", err)
	}

	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewFromS3Client(s3Client, cfg.BucketName, cfg.Prefix), nil
}

// NewFromS3Client creates a Store from an existing S3 client.
func NewFromS3Client(s3Client *s3.Client, bucketName, prefix string) *Store {
	return &Store{
		s3Client:   s3Client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

// Key builds the object key for name within runID. An empty runID gets a
// fresh one so anonymous uploads never collide.
func (s *Store) Key(runID, name string) string {
	if runID == "" {
		runID = obs.NewRunID()
	}
	return path.Join(s.prefix, runID, path.Base(name))
}

// Put stores content under key.
func (s *Store) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("put artifact %q", key), err)
	}
	return nil
}

// Get retrieves the content stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &notFound) {
			return nil, errs.Wrap(errs.NotFound, fmt.Sprintf("artifact %q", key), err)
		}
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("get artifact %q", key), err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("read artifact %q", key), err)
	}
	return data, nil
}

// List returns the keys stored for runID in lexical order.
func (s *Store) List(ctx context.Context, runID string) ([]string, error) {
	prefix := path.Join(s.prefix, runID) + "/"
	out, err := s.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("list artifacts under %q", prefix), err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

// BucketName returns the configured bucket name.
func (s *Store) BucketName() string {
	return s.bucketName
}
