package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Downloader is the part of the s3 download manager used by S3Source.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// S3Source loads the payload from a single object in an S3 bucket.
type S3Source struct {
	bucket     string
	key        string
	downloader Downloader
}

// NewS3Source loads the shared AWS configuration for profile and region
// (either may be empty to use the defaults) and returns a source for
// s3://bucket/key.
func NewS3Source(ctx context.Context, profile, region, bucket, key string) (*S3Source, error) {
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided")
	}
	if key == "" {
		return nil, errors.New("no s3 object key provided")
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config: %w", err)
	}

	return NewS3SourceWithDownloader(manager.NewDownloader(s3.NewFromConfig(cfg)), bucket, key), nil
}

func NewS3SourceWithDownloader(d Downloader, bucket, key string) *S3Source {
	return &S3Source{
		bucket:     bucket,
		key:        key,
		downloader: d,
	}
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	buf := manager.NewWriteAtBuffer([]byte{})
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}); err != nil {
		return nil, fmt.Errorf("unable to download object from s3, %s, %w", s.key, err)
	}
	return buf.Bytes(), nil
}
