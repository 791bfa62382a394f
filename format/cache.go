package format

import (
	"context"
	"log/slog"
	"sync"
)

// cache stores parsed trees keyed by source.
var cache sync.Map

// entry tracks the parse state of one source.
type entry struct {
	once sync.Once
	tree *Tree
	err  error
}

// ParseCached is like [Parse] but returns the tree of an earlier call with
// the same source when one exists. Failed parses are cached as well.
func ParseCached(ctx context.Context, s string, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)

	value, hit := cache.LoadOrStore(s, new(entry))

	e, _ := value.(*entry)

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.Int("source_bytes", len(s)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.tree, e.err = Parse(ctx, s, opts...)
	})

	return e.tree, e.err
}

// ClearCache removes every tree cached by [ParseCached].
func ClearCache() {
	cache.Clear()
}
