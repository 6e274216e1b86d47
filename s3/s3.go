package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/opfsgo"
)

// Client is the subset of the S3 API the backend uses.
// *s3.Client satisfies it; tests inject a fake.
type Client interface {
	manager.UploadAPIClient

	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// backend carries the shared client and ambient configuration.
type backend struct {
	client  Client
	bucket  string
	logger  *opfsgo.Logger
	metrics opfsgo.MetricsCollector
}

type options struct {
	client  Client
	prefix  string
	logger  *opfsgo.Logger
	metrics opfsgo.MetricsCollector
}

// Option configures the S3 backend.
type Option func(*options)

// WithClient injects a preconfigured S3 client. Without it, New loads the
// default AWS config.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithPrefix roots the directory tree at the given key prefix
// (e.g. "app-data/").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *opfsgo.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = opfsgo.NoopLogger()
		}
		o.logger = logger.WithBackend("s3")
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc opfsgo.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = opfsgo.NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// New returns a directory handle rooted at bucket (optionally under a key
// prefix). When no client is injected, the default AWS config chain is used.
func New(ctx context.Context, bucket string, optFns ...Option) (DirectoryHandle, error) {
	o := options{
		logger:  opfsgo.NoopLogger().WithBackend("s3"),
		metrics: opfsgo.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.client == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return DirectoryHandle{}, fmt.Errorf("load aws config: %w", err)
		}
		o.client = s3.NewFromConfig(cfg)
	}

	b := &backend{
		client:  o.client,
		bucket:  bucket,
		logger:  o.logger,
		metrics: o.metrics,
	}
	return DirectoryHandle{backend: b, prefix: normalizePrefix(o.prefix)}, nil
}

// normalizePrefix ensures a non-empty prefix ends with exactly one slash.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// validateName rejects entry names that would break the key layout.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid entry name %q", name)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("invalid entry name %q: must not contain %q", name, "/")
	}
	return nil
}

// isNotFound reports whether err is S3's missing-object error.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
