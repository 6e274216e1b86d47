package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/opfsgo"
)

// DirectoryHandle is a handle to a key prefix acting as a directory.
type DirectoryHandle struct {
	backend *backend
	prefix  string // "" for the bucket root, otherwise ends with "/"
}

var _ opfsgo.Directory = DirectoryHandle{}

// Prefix returns the key prefix the handle points at.
func (d DirectoryHandle) Prefix() string { return d.prefix }

func (d DirectoryHandle) key(name string) string {
	return d.prefix + name
}

// GetFileHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetFileHandle(ctx context.Context, name string, opts opfsgo.GetFileHandleOptions) (opfsgo.File, error) {
	start := time.Now()
	fh, created, err := d.getFile(ctx, name, opts.Create)
	d.backend.metrics.RecordLookup(opfsgo.KindFile, time.Since(start), err)
	d.backend.logger.LogLookup(ctx, opfsgo.KindFile, name, created, err)
	if err != nil {
		return nil, err
	}
	return fh, nil
}

func (d DirectoryHandle) getFile(ctx context.Context, name string, create bool) (FileHandle, bool, error) {
	if err := validateName(name); err != nil {
		return FileHandle{}, false, err
	}
	key := d.key(name)

	_, err := d.backend.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.backend.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		return FileHandle{backend: d.backend, key: key}, false, nil
	case isNotFound(err):
		// The name may exist as a directory prefix.
		isDir, derr := d.prefixExists(ctx, key+"/")
		if derr != nil {
			return FileHandle{}, false, derr
		}
		if isDir {
			return FileHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: opfsgo.KindDirectory}
		}
		if !create {
			return FileHandle{}, false, opfsgo.NotFoundError(name)
		}
		_, perr := d.backend.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(d.backend.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(nil),
		})
		if perr != nil {
			return FileHandle{}, false, perr
		}
		return FileHandle{backend: d.backend, key: key}, true, nil
	default:
		return FileHandle{}, false, err
	}
}

// GetDirectoryHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetDirectoryHandle(ctx context.Context, name string, opts opfsgo.GetDirectoryHandleOptions) (opfsgo.Directory, error) {
	start := time.Now()
	dh, created, err := d.getDir(ctx, name, opts.Create)
	d.backend.metrics.RecordLookup(opfsgo.KindDirectory, time.Since(start), err)
	d.backend.logger.LogLookup(ctx, opfsgo.KindDirectory, name, created, err)
	if err != nil {
		return nil, err
	}
	return dh, nil
}

func (d DirectoryHandle) getDir(ctx context.Context, name string, create bool) (DirectoryHandle, bool, error) {
	if err := validateName(name); err != nil {
		return DirectoryHandle{}, false, err
	}
	key := d.key(name)

	exists, err := d.prefixExists(ctx, key+"/")
	if err != nil {
		return DirectoryHandle{}, false, err
	}
	if exists {
		return DirectoryHandle{backend: d.backend, prefix: key + "/"}, false, nil
	}

	// The name may exist as a plain object.
	_, err = d.backend.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.backend.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return DirectoryHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: opfsgo.KindFile}
	}
	if !isNotFound(err) {
		return DirectoryHandle{}, false, err
	}

	if !create {
		return DirectoryHandle{}, false, opfsgo.NotFoundError(name)
	}

	// Materialize the directory with a zero-byte marker object.
	_, err = d.backend.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.backend.bucket),
		Key:    aws.String(key + "/"),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return DirectoryHandle{}, false, err
	}
	return DirectoryHandle{backend: d.backend, prefix: key + "/"}, true, nil
}

// prefixExists reports whether any object lives under the given prefix
// (including a bare marker object).
func (d DirectoryHandle) prefixExists(ctx context.Context, prefix string) (bool, error) {
	out, err := d.backend.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.backend.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Contents) > 0, nil
}

// RemoveEntry implements opfsgo.Directory.
func (d DirectoryHandle) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	start := time.Now()
	err := d.remove(ctx, name, opts.Recursive)
	d.backend.metrics.RecordRemove(time.Since(start), err)
	d.backend.logger.LogRemove(ctx, name, opts.Recursive, err)
	return err
}

func (d DirectoryHandle) remove(ctx context.Context, name string, recursive bool) error {
	if err := validateName(name); err != nil {
		return err
	}
	key := d.key(name)

	_, err := d.backend.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.backend.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		_, derr := d.backend.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(d.backend.bucket),
			Key:    aws.String(key),
		})
		return derr
	case isNotFound(err):
		// Fall through to the directory case.
	default:
		return err
	}

	marker := key + "/"
	out, err := d.backend.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.backend.bucket),
		Prefix:  aws.String(marker),
		MaxKeys: aws.Int32(2),
	})
	if err != nil {
		return err
	}
	if len(out.Contents) == 0 {
		return opfsgo.NotFoundError(name)
	}

	if !recursive {
		for _, obj := range out.Contents {
			if aws.ToString(obj.Key) != marker {
				return &opfsgo.ErrDirectoryNotEmpty{Name: name}
			}
		}
		_, err := d.backend.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(d.backend.bucket),
			Key:    aws.String(marker),
		})
		return err
	}

	return d.deletePrefix(ctx, marker)
}

// deletePrefix removes every object under prefix in batches of up to 1000
// keys per DeleteObjects call.
func (d DirectoryHandle) deletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(d.backend.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.backend.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		if len(page.Contents) == 0 {
			continue
		}

		batch := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
		}
		_, err = d.backend.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(d.backend.bucket),
			Delete: &types.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Entries implements opfsgo.Directory. Only immediate children are listed:
// subdirectories come from CommonPrefixes, files from Contents. The marker
// object of the directory itself is skipped.
func (d DirectoryHandle) Entries(ctx context.Context) (opfsgo.EntryIterator, error) {
	start := time.Now()

	var entries []opfsgo.Entry

	paginator := s3.NewListObjectsV2Paginator(d.backend.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.backend.bucket),
		Prefix:    aws.String(d.prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			d.backend.metrics.RecordEnumerate(len(entries), time.Since(start), err)
			return nil, err
		}

		for _, cp := range page.CommonPrefixes {
			prefix := aws.ToString(cp.Prefix)
			name := strings.TrimSuffix(strings.TrimPrefix(prefix, d.prefix), "/")
			if name == "" {
				continue
			}
			entries = append(entries, opfsgo.Entry{
				Name:      name,
				Kind:      opfsgo.KindDirectory,
				Directory: DirectoryHandle{backend: d.backend, prefix: prefix},
			})
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == d.prefix {
				continue // our own marker
			}
			name := strings.TrimPrefix(key, d.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			entries = append(entries, opfsgo.Entry{
				Name: name,
				Kind: opfsgo.KindFile,
				File: FileHandle{backend: d.backend, key: key},
			})
		}
	}

	d.backend.metrics.RecordEnumerate(len(entries), time.Since(start), nil)
	return &entryIterator{entries: entries}, nil
}

type entryIterator struct {
	entries []opfsgo.Entry
	pos     int
}

func (it *entryIterator) Next(_ context.Context) (opfsgo.Entry, error) {
	if it.pos >= len(it.entries) {
		return opfsgo.Entry{}, io.EOF
	}
	e := it.entries[it.pos]
	it.pos++
	return e, nil
}
