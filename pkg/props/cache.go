package props

import (
	"log/slog"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
)

// DefaultCacheSize is the number of repository programs kept alive.
const DefaultCacheSize = 4

// ProgramCache keeps parsed Programs keyed by absolute repository root.
// Evicted or invalidated programs close their trees once the last caller
// releases them.
type ProgramCache struct {
	pm    *parser.ParserManager
	log   *slog.Logger
	cache *lru.Cache[string, *Program]

	// build serializes construction so two callers never parse the same root.
	build sync.Mutex
}

// NewProgramCache creates a cache holding up to size programs.
func NewProgramCache(pm *parser.ParserManager, size int, logger *slog.Logger) *ProgramCache {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.NewWithEvict(size, func(root string, p *Program) {
		logger.Debug("program evicted", "root", root)
		p.evict()
	})
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &ProgramCache{pm: pm, log: logger, cache: cache}
}

// Get returns the program for root, building it from files on a miss. The
// returned release func must be called when the caller is done with it.
func (c *ProgramCache) Get(root string, files []string) (*Program, func()) {
	key := cacheKey(root)

	c.build.Lock()
	defer c.build.Unlock()

	if p, ok := c.cache.Get(key); ok && p.retain() {
		c.log.Debug("program cache hit", "root", key)
		return p, p.release
	}

	p := NewProgram(c.pm, key, files, c.log)
	p.retain()
	c.cache.Add(key, p)
	return p, p.release
}

// Invalidate drops the program for root so the next Get rebuilds it.
func (c *ProgramCache) Invalidate(root string) bool {
	return c.cache.Remove(cacheKey(root))
}

// Purge drops every cached program.
func (c *ProgramCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	return c.cache.Len()
}

func cacheKey(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(root)
}
