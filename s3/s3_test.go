package s3

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/opfsgo"
)

// fakeClient is an in-memory stand-in for the S3 API, good enough for the
// request shapes the backend issues (single-page listings, single-part
// uploads).
type fakeClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (c *fakeClient) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (c *fakeClient) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(data))),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (c *fakeClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (c *fakeClient) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (c *fakeClient) DeleteObjects(_ context.Context, params *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, obj := range params.Delete.Objects {
		delete(c.objects, aws.ToString(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (c *fakeClient) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := aws.ToString(params.Prefix)
	delimiter := aws.ToString(params.Delimiter)
	max := int(aws.ToInt32(params.MaxKeys))

	var keys []string
	for key := range c.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	seenPrefixes := make(map[string]bool)

	for _, key := range keys {
		if delimiter != "" {
			rest := strings.TrimPrefix(key, prefix)
			if i := strings.Index(rest, delimiter); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seenPrefixes[cp] {
					seenPrefixes[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		if max > 0 && len(out.Contents) >= max {
			break
		}
	}
	return out, nil
}

// Multipart methods satisfy manager.UploadAPIClient; the backend's uploads
// stay below the part size so these are never reached.
func (c *fakeClient) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (c *fakeClient) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (c *fakeClient) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (c *fakeClient) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func newTestDir(t *testing.T, ctx context.Context) (DirectoryHandle, *fakeClient) {
	t.Helper()

	client := newFakeClient()
	dir, err := New(ctx, "test-bucket", WithClient(client), WithPrefix("app-data"))
	require.NoError(t, err)
	return dir, client
}

func collectEntries(t *testing.T, ctx context.Context, dir opfsgo.Directory) []opfsgo.Entry {
	t.Helper()

	it, err := dir.Entries(ctx)
	require.NoError(t, err)

	var out []opfsgo.Entry
	for {
		e, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, e)
	}
}

func TestCreateWriteReadFile(t *testing.T) {
	ctx := context.Background()
	dir, client := newTestDir(t, ctx)

	file, err := dir.GetFileHandle(ctx, "greeting.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, []byte("Hello, world!")))
	require.NoError(t, w.Close(ctx))

	got, err := file.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "Hello, world!", string(got))

	size, err := file.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(13), size)

	// The object lands under the configured prefix.
	require.Contains(t, client.objects, "app-data/greeting.txt")
}

func TestFileNotFound(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	_, err := dir.GetFileHandle(ctx, "missing.txt", opfsgo.GetFileHandleOptions{})
	require.ErrorIs(t, err, opfsgo.ErrNotFound)
}

func TestWrongKind(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	_, err := dir.GetDirectoryHandle(ctx, "sub", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)
	_, err = dir.GetFileHandle(ctx, "file.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	_, err = dir.GetFileHandle(ctx, "sub", opfsgo.GetFileHandleOptions{Create: true})
	require.ErrorIs(t, err, opfsgo.ErrWrongKind)

	_, err = dir.GetDirectoryHandle(ctx, "file.txt", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.ErrorIs(t, err, opfsgo.ErrWrongKind)
}

func TestDirectoryMarker(t *testing.T) {
	ctx := context.Background()
	dir, client := newTestDir(t, ctx)

	sub, err := dir.GetDirectoryHandle(ctx, "nested", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)
	require.Contains(t, client.objects, "app-data/nested/")

	// Lookup without create resolves through the marker.
	again, err := dir.GetDirectoryHandle(ctx, "nested", opfsgo.GetDirectoryHandleOptions{})
	require.NoError(t, err)
	require.Equal(t, sub.(DirectoryHandle).Prefix(), again.(DirectoryHandle).Prefix())
}

func TestKeepExistingDataDownloads(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	file, err := dir.GetFileHandle(ctx, "doc.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, []byte("Hello World")))
	require.NoError(t, w.Close(ctx))

	w2, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{KeepExistingData: true})
	require.NoError(t, err)
	require.NoError(t, w2.Seek(ctx, 6))
	require.NoError(t, w2.Write(ctx, []byte("Go")))
	require.NoError(t, w2.Close(ctx))

	got, err := file.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "Hello Go", string(got))
}

func TestSeekBeyondEnd(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	file, err := dir.GetFileHandle(ctx, "f.bin", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, []byte("12345")))

	require.ErrorIs(t, w.Seek(ctx, 10), opfsgo.ErrOutOfRange)
	require.NoError(t, w.Seek(ctx, 5))
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	require.Empty(t, collectEntries(t, ctx, dir))

	_, err := dir.GetFileHandle(ctx, "a.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)
	sub, err := dir.GetDirectoryHandle(ctx, "docs", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)
	_, err = sub.GetFileHandle(ctx, "deep.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	entries := collectEntries(t, ctx, dir)
	require.Len(t, entries, 2)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	require.Equal(t, "a.txt", entries[0].Name)
	require.Equal(t, opfsgo.KindFile, entries[0].Kind)
	require.Equal(t, "docs", entries[1].Name)
	require.Equal(t, opfsgo.KindDirectory, entries[1].Kind)

	// Children of subdirectories do not leak into the parent listing.
	deep := collectEntries(t, ctx, entries[1].Directory)
	require.Len(t, deep, 1)
	require.Equal(t, "deep.txt", deep[0].Name)
}

func TestRemoveEntry(t *testing.T) {
	ctx := context.Background()
	dir, _ := newTestDir(t, ctx)

	_, err := dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	require.NoError(t, dir.RemoveEntry(ctx, "f.txt", opfsgo.RemoveEntryOptions{}))
	_, err = dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{})
	require.ErrorIs(t, err, opfsgo.ErrNotFound)

	require.ErrorIs(t, dir.RemoveEntry(ctx, "f.txt", opfsgo.RemoveEntryOptions{}), opfsgo.ErrNotFound)
}

func TestRemoveDirectory(t *testing.T) {
	ctx := context.Background()
	dir, client := newTestDir(t, ctx)

	sub, err := dir.GetDirectoryHandle(ctx, "sub", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)
	_, err = sub.GetFileHandle(ctx, "child.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	err = dir.RemoveEntry(ctx, "sub", opfsgo.RemoveEntryOptions{})
	require.ErrorIs(t, err, opfsgo.ErrNotEmpty)

	require.NoError(t, dir.RemoveEntry(ctx, "sub", opfsgo.RemoveEntryOptions{Recursive: true}))
	require.NotContains(t, client.objects, "app-data/sub/")
	require.NotContains(t, client.objects, "app-data/sub/child.txt")

	// An empty directory removes without the recursive option.
	_, err = dir.GetDirectoryHandle(ctx, "empty", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)
	require.NoError(t, dir.RemoveEntry(ctx, "empty", opfsgo.RemoveEntryOptions{}))
}
