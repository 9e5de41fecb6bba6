package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

func newTestCache(t *testing.T, size int) *ProgramCache {
	t.Helper()
	pm := parser.NewParserManager(util.DiscardLogger())
	t.Cleanup(func() { pm.Close() })
	cache := NewProgramCache(pm, size, util.DiscardLogger())
	t.Cleanup(cache.Purge)
	return cache
}

func TestProgramCache_ReusesProgram(t *testing.T) {
	root, paths := writeFiles(t, map[string]string{"Button.tsx": buttonTSX})
	cache := newTestCache(t, 2)

	first, release := cache.Get(root, []string{paths["Button.tsx"]})
	release()
	second, release := cache.Get(root+"/", nil)
	release()

	assert.Same(t, first, second, "trailing slash resolves to the same root")
	assert.Equal(t, 1, first.Files())
	assert.Equal(t, 1, cache.Len())
}

func TestProgramCache_Invalidate(t *testing.T) {
	root, paths := writeFiles(t, map[string]string{"Button.tsx": buttonTSX})
	cache := newTestCache(t, 2)

	first, release := cache.Get(root, []string{paths["Button.tsx"]})
	release()
	require.True(t, cache.Invalidate(root))
	assert.True(t, first.closed)
	assert.False(t, cache.Invalidate(root))

	second, release := cache.Get(root, []string{paths["Button.tsx"]})
	defer release()
	assert.NotSame(t, first, second)
}

func TestProgramCache_EvictionWaitsForRelease(t *testing.T) {
	rootA, pathsA := writeFiles(t, map[string]string{"A.tsx": buttonTSX})
	rootB, pathsB := writeFiles(t, map[string]string{"B.tsx": buttonTSX})
	cache := newTestCache(t, 1)

	a, releaseA := cache.Get(rootA, []string{pathsA["A.tsx"]})
	b, releaseB := cache.Get(rootB, []string{pathsB["B.tsx"]})
	defer releaseB()

	assert.False(t, a.closed, "a program in use stays open after eviction")
	props := NewExtractor(true, util.DiscardLogger()).Extract(a, pathsA["A.tsx"], "Button")
	assert.NotEmpty(t, props)

	releaseA()
	assert.True(t, a.closed)
	assert.False(t, b.closed)
	assert.Equal(t, 1, cache.Len())
}
