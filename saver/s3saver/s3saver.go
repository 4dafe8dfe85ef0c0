// Package s3saver uploads archives to S3 or an S3-compatible store.
package s3saver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config selects the target bucket and, for S3-compatible stores such as
// MinIO, the endpoint and static credentials.
type Config struct {
	Bucket    string
	KeyPrefix string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// putObjectAPI is the slice of the S3 client the saver needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Saver struct {
	client putObjectAPI
	bucket string
	prefix string
}

// New builds the S3 client from the ambient AWS configuration, overlaid
// with whatever cfg sets explicitly.
func New(ctx context.Context, cfg Config) (*s3Saver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			},
		)
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &s3Saver{client: client, bucket: cfg.Bucket, prefix: cfg.KeyPrefix}, nil
}

func (s *s3Saver) Save(ctx context.Context, filename string, data []byte) error {
	key := filename
	if s.prefix != "" {
		key = path.Join(s.prefix, filename)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}
