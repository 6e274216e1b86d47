package s3

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/opfsgo"
)

// FileHandle is a handle to an object key.
type FileHandle struct {
	backend *backend
	key     string
}

var _ opfsgo.File = FileHandle{}

// Key returns the object key the handle points at.
func (f FileHandle) Key() string { return f.key }

// CreateWritable implements opfsgo.File. The stream buffers locally; with
// KeepExistingData=true the current object content is downloaded first.
func (f FileHandle) CreateWritable(ctx context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	var buf []byte
	if opts.KeepExistingData {
		data, err := f.Read(ctx)
		if err != nil {
			return nil, err
		}
		buf = data
	}
	return &WritableFileStream{backend: f.backend, key: f.key, buf: buf}, nil
}

// Read implements opfsgo.File.
func (f FileHandle) Read(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := f.read(ctx)
	f.backend.metrics.RecordRead(len(data), time.Since(start), err)
	return data, err
}

func (f FileHandle) read(ctx context.Context) ([]byte, error) {
	out, err := f.backend.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.backend.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, opfsgo.NotFoundError(f.key)
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Size implements opfsgo.File.
func (f FileHandle) Size(ctx context.Context) (int64, error) {
	out, err := f.backend.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.backend.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, opfsgo.NotFoundError(f.key)
		}
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}
