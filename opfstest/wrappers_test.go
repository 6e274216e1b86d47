package opfstest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hupe1980/opfsgo"
	"github.com/hupe1980/opfsgo/memory"
	"github.com/hupe1980/opfsgo/opfstest"
)

func TestThrottlePassesThrough(t *testing.T) {
	ctx := context.Background()
	dir := opfstest.Throttle(memory.NewDirectory(), rate.NewLimiter(rate.Inf, 1))

	file, err := dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, []byte("data")))
	require.NoError(t, w.Close(ctx))

	got, err := file.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "data", string(got))
}

func TestThrottleHonorsContext(t *testing.T) {
	// Zero-rate limiter never admits an event, so the wait must end with
	// the context instead.
	dir := opfstest.Throttle(memory.NewDirectory(), rate.NewLimiter(0, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.Error(t, err)
}

func TestWithFaultsInjects(t *testing.T) {
	ctx := context.Background()

	dir := opfstest.WithFaults(memory.NewDirectory(), func(op, name string) error {
		if op == "write" {
			return opfstest.ErrInjected
		}

		return nil
	})

	file, err := dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.ErrorIs(t, w.Write(ctx, []byte("data")), opfstest.ErrInjected)
	require.NoError(t, w.Close(ctx))
}

func TestWithFaultsNilHook(t *testing.T) {
	ctx := context.Background()

	dir := opfstest.WithFaults(memory.NewDirectory(), nil)

	file, err := dir.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, []byte("ok")))
	require.NoError(t, w.Close(ctx))
}

func TestWithFaultsTargetsName(t *testing.T) {
	ctx := context.Background()

	dir := opfstest.WithFaults(memory.NewDirectory(), func(op, name string) error {
		if op == "lookup" && name == "blocked.txt" {
			return opfstest.ErrInjected
		}

		return nil
	})

	_, err := dir.GetFileHandle(ctx, "ok.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)

	_, err = dir.GetFileHandle(ctx, "blocked.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.ErrorIs(t, err, opfstest.ErrInjected)
}
