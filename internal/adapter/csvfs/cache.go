package csvfs

import (
	"container/list"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/couchcryptid/climate-stats-etl/internal/observability"
)

// FileLoader parses one file into station records.
type FileLoader interface {
	Load(ctx context.Context, path string) (domain.LoadedFile, error)
}

// CachedLoader wraps a FileLoader with an in-memory LRU of parsed files.
// Entries are keyed on path, size and modification time, so an edited file
// is parsed again on the next run.
type CachedLoader struct {
	inner   FileLoader
	cache   *fileCache
	metrics *observability.Metrics
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner FileLoader, maxEntries int, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		cache:   newFileCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLoader) Load(ctx context.Context, path string) (domain.LoadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.LoadedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())

	if f, ok := c.cache.get(key); ok {
		c.metrics.FileCache.WithLabelValues("hit").Inc()
		return f, nil
	}
	c.metrics.FileCache.WithLabelValues("miss").Inc()

	f, err := c.inner.Load(ctx, path)
	if err != nil {
		// Failures are not cached.
		return f, err
	}
	c.cache.put(key, f)
	return f, nil
}

// fileCache is a thread-safe LRU of parsed files.
type fileCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	items      map[string]*list.Element
}

type cacheItem struct {
	key  string
	file domain.LoadedFile
}

func newFileCache(maxEntries int) *fileCache {
	return &fileCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *fileCache) get(key string) (domain.LoadedFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return domain.LoadedFile{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheItem).file, true
}

func (c *fileCache) put(key string, f domain.LoadedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheItem).file = f
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&cacheItem{key: key, file: f})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem).key)
	}
}

func (c *fileCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
