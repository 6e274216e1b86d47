package native

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/hupe1980/opfsgo"
	ifs "github.com/hupe1980/opfsgo/internal/fs"
)

// backend carries the per-tree ambient configuration and the filesystem seam.
type backend struct {
	fsys    ifs.FileSystem
	logger  *opfsgo.Logger
	metrics opfsgo.MetricsCollector
}

// Option configures a native backend root.
type Option func(*backend)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *opfsgo.Logger) Option {
	return func(b *backend) {
		if logger == nil {
			logger = opfsgo.NoopLogger()
		}
		b.logger = logger.WithBackend("native")
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc opfsgo.MetricsCollector) Option {
	return func(b *backend) {
		if mc == nil {
			mc = opfsgo.NoopMetricsCollector{}
		}
		b.metrics = mc
	}
}

// NewDirectory returns a directory handle rooted at path. The path must
// exist and refer to a directory.
func NewDirectory(path string, optFns ...Option) (DirectoryHandle, error) {
	b := &backend{
		fsys:    ifs.Default,
		logger:  opfsgo.NoopLogger().WithBackend("native"),
		metrics: opfsgo.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(b)
		}
	}

	info, err := b.fsys.Stat(path)
	if err != nil {
		return DirectoryHandle{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return DirectoryHandle{}, &opfsgo.ErrEntryKind{Name: path, Kind: opfsgo.KindFile}
	}

	return DirectoryHandle{backend: b, path: path}, nil
}

// validateName rejects entry names that would escape the directory. Entry
// names are single path components, never paths.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid entry name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid entry name %q: must not contain path separators", name)
	}
	return nil
}

// skipIrregular reports whether a directory entry is neither a regular file
// nor a directory (symlinks, devices, sockets). Those are invisible to the
// contract.
func skipIrregular(mode fs.FileMode) bool {
	return !mode.IsRegular() && !mode.IsDir()
}
