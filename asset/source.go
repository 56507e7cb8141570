package asset

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Source resolves a model name to a mesh
type Source interface {
	Load(ctx context.Context, name string) (*Model, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, name string) (*Model, error)

func (f SourceFunc) Load(ctx context.Context, name string) (*Model, error) {
	return f(ctx, name)
}

// MuxSource routes builtin: names to Builtin and everything else to Files
type MuxSource struct {
	Builtin Source
	Files   Source
}

// NewMuxSource wires the procedural builtins with a glTF directory
func NewMuxSource(dir string) *MuxSource {
	return &MuxSource{
		Builtin: BuiltinSource{},
		Files:   GLTFSource{Dir: dir},
	}
}

func (s *MuxSource) Load(ctx context.Context, name string) (*Model, error) {
	if strings.HasPrefix(name, BuiltinPrefix) {
		return s.Builtin.Load(ctx, name)
	}
	return s.Files.Load(ctx, name)
}

// CachedSource memoizes successful loads by name
// Models are shared read-only between nodes; failures are not cached
// Concurrent first loads of one name share a single parse, run under the
// first caller's context
type CachedSource struct {
	src   Source
	group singleflight.Group

	mu     sync.Mutex
	models map[string]*Model
	hits   int
}

// NewCachedSource wraps src
func NewCachedSource(src Source) *CachedSource {
	return &CachedSource{
		src:    src,
		models: make(map[string]*Model),
	}
}

func (c *CachedSource) Load(ctx context.Context, name string) (*Model, error) {
	c.mu.Lock()
	if m, ok := c.models[name]; ok {
		c.hits++
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(name, func() (any, error) {
		// A flight that finished between the check above and Do has stored its model
		if m, ok := c.cached(name); ok {
			return m, nil
		}
		m, err := c.src.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.models[name] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

func (c *CachedSource) cached(name string) (*Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.models[name]
	return m, ok
}

// Hits returns how many loads were served from memory
func (c *CachedSource) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
