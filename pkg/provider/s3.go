package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultS3Region is used when the configuration leaves Region empty.
const DefaultS3Region = "us-east-1"

// S3Config holds S3-compatible object storage settings. All fields are
// populated from environment variables for deployment convenience.
type S3Config struct {
	Bucket    string `env:"DATRA_S3_BUCKET"`
	AccessKey string `env:"DATRA_S3_ACCESS_KEY"`
	SecretKey string `env:"DATRA_S3_SECRET_KEY"`

	// Endpoint overrides the AWS endpoint for MinIO and other S3-compatible
	// stores. PathStyle must usually be enabled alongside it.
	Endpoint  string `env:"DATRA_S3_ENDPOINT"`
	PathStyle bool   `env:"DATRA_S3_PATH_STYLE"`

	Region string `env:"DATRA_S3_REGION" envDefault:"us-east-1"`

	// KeyPrefix is prepended to every object key, letting several data sets
	// share one bucket.
	KeyPrefix string `env:"DATRA_S3_KEY_PREFIX"`
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultS3Region
	}
	c.KeyPrefix = strings.Trim(c.KeyPrefix, "/")
}

func (c S3Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	if c.AccessKey == "" {
		return fmt.Errorf("%w: access key is required", ErrInvalidConfig)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}
	return nil
}

// S3 stores data as objects in an S3-compatible bucket.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates an S3 provider with the given configuration.
func NewS3(cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3{
		client: s3.New(s3.Options{}, opts...),
		cfg:    cfg,
	}, nil
}

// Driver returns DriverS3.
func (s *S3) Driver() Driver { return DriverS3 }

// LoadText downloads the object stored at path.
func (s *S3) LoadText(ctx context.Context, path string) (string, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(rel)),
	})
	if err != nil {
		return "", wrapS3Error(err, path)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrIOFailure, path, err)
	}
	return string(data), nil
}

// SaveText uploads content at path. The content type is derived from the
// file extension so downloads through a browser behave sensibly.
func (s *S3) SaveText(ctx context.Context, path string, content string) error {
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(s.key(rel)),
		Body:        strings.NewReader(content),
		ContentType: aws.String(contentTypeForPath(rel)),
	})
	if err != nil {
		return wrapS3Error(err, path)
	}
	return nil
}

// Exists reports whether an object is stored at path.
func (s *S3) Exists(ctx context.Context, path string) bool {
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(rel)),
	})
	return err == nil
}

// ResolvePath returns the s3:// location for path.
func (s *S3) ResolvePath(path string) string {
	return "s3://" + s.cfg.Bucket + "/" + s.key(path)
}

// LoadMultiple lists the objects directly under folder and downloads those
// whose names match pattern.
func (s *S3) LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error) {
	rel, err := cleanFolder(folder)
	if err != nil {
		return nil, err
	}
	pattern, err = cleanPattern(pattern)
	if err != nil {
		return nil, err
	}

	prefix := s.key("")
	if rel != "." {
		prefix = s.key(rel) + "/"
	}

	result := make(map[string]string)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(prefix),
		// Delimiter collapses nested folders into common prefixes, so only
		// direct children come back as contents.
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, folder)
		}
		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}
			name := strings.TrimPrefix(*object.Key, prefix)
			if name == "" || !matchName(pattern, name) {
				continue
			}
			content, err := s.LoadText(ctx, path.Join(rel, name))
			if err != nil {
				return nil, err
			}
			result[name] = content
		}
	}
	return result, nil
}

// Ping verifies the bucket is reachable with the configured credentials.
func (s *S3) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err != nil {
		return wrapS3Error(err, s.cfg.Bucket)
	}
	return nil
}

// Close is a no-op: the S3 client holds no persistent connections.
func (s *S3) Close() error { return nil }

func (s *S3) key(rel string) string {
	if s.cfg.KeyPrefix == "" {
		return rel
	}
	if rel == "" {
		return s.cfg.KeyPrefix + "/"
	}
	return s.cfg.KeyPrefix + "/" + rel
}

// wrapS3Error maps S3 failures onto provider sentinels. It checks both API
// error codes and typed errors. The original error is flattened with %v so
// callers match with errors.Is against sentinels, not AWS types.
func wrapS3Error(err error, path string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return fmt.Errorf("%w: %s: %v", ErrIOFailure, path, err)
}

func contentTypeForPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

var _ Provider = (*S3)(nil)
var _ Pinger = (*S3)(nil)
