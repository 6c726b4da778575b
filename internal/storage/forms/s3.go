package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hankerbiao/Registration-System/internal/model"
)

// S3Config locates the form object in S3 or an S3-compatible service
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string // optional, switches to path-style addressing
}

// ObjectGetter is the part of the S3 client the store needs
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads the form from an object store
type S3Store struct {
	client ObjectGetter
	bucket string
	key    string
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds an S3 client from the default AWS credential chain
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("registration form bucket and key are required")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewS3StoreWithClient wraps an existing client (for testing)
func NewS3StoreWithClient(client ObjectGetter, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key}
}

func (s *S3Store) Open(ctx context.Context) (*Form, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, model.ErrFormNotFound
		}
		return nil, fmt.Errorf("get registration form: %w", err)
	}

	form := &Form{Body: out.Body, Size: -1}
	if out.ContentLength != nil {
		form.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		form.ModTime = *out.LastModified
	}
	return form, nil
}
