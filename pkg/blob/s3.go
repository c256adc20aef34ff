package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/wikiforge/wiki-api/pkg/apperr"
)

// S3Config configures the S3 blob provider. Static credentials are
// optional; without them the default AWS credential chain applies.
type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string // key prefix inside the bucket
	Endpoint        string // optional, for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
}

// S3 stores payloads in an S3 bucket.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 builds an S3 provider from the given configuration.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, cfg: cfg}, nil
}

// Store uploads the payload under a generated key.
func (p *S3) Store(ctx context.Context, filename string, r io.Reader) (*Stored, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	key := name
	if p.cfg.Prefix != "" {
		key = strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + name
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return nil, apperr.E(apperr.ErrUnavailable, "uploading object to s3")
	}

	return &Stored{
		URL:  p.objectURL(key),
		Name: name,
	}, nil
}

// Open reads back a stored payload by name.
func (p *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := name
	if p.cfg.Prefix != "" {
		key = strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + name
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperr.E(apperr.ErrNotFound, "object %q", name)
	}
	return out.Body, nil
}

func (p *S3) objectURL(key string) string {
	if p.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimSuffix(p.cfg.Endpoint, "/"), p.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		p.cfg.Bucket, p.cfg.Region, key)
}
