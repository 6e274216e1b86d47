package memory

import (
	"sync"

	"github.com/hupe1980/opfsgo"
)

// node is an entry in the namespace, tagged as file or directory.
// The tag never changes after creation.
type node struct {
	kind opfsgo.EntryKind
	dir  *dirNode
	file *fileNode
}

// dirNode is the shared state behind every alias of one directory.
// order preserves insertion order for stable enumeration.
type dirNode struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*node
}

func newDirNode() *dirNode {
	return &dirNode{
		entries: make(map[string]*node),
	}
}

func (d *dirNode) insert(name string, n *node) {
	d.entries[name] = n
	d.order = append(d.order, name)
}

func (d *dirNode) remove(name string) {
	delete(d.entries, name)
	for i, o := range d.order {
		if o == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// fileNode is the shared state behind every alias of one file.
type fileNode struct {
	mu   sync.RWMutex
	data []byte
}

// backend carries the per-tree ambient configuration. All handles derived
// from one root share it.
type backend struct {
	logger  *opfsgo.Logger
	metrics opfsgo.MetricsCollector
}

// Option configures a memory backend root.
type Option func(*backend)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *opfsgo.Logger) Option {
	return func(b *backend) {
		if logger == nil {
			logger = opfsgo.NoopLogger()
		}
		b.logger = logger.WithBackend("memory")
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

// NewDirectory creates an empty root directory.
func NewDirectory(optFns ...Option) DirectoryHandle {
	b := &backend{
		logger:  opfsgo.NoopLogger().WithBackend("memory"),
		metrics: opfsgo.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(b)
		}
	}
	return DirectoryHandle{
		backend: b,
		node:    newDirNode(),
	}
}
