package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// TestConcurrentParsing checks that many goroutines can share a pool
// without races or deadlocks.
func TestConcurrentParsing(t *testing.T) {
	manager := newTestManager(t)

	const numGoroutines = 64
	var wg sync.WaitGroup
	errChan := make(chan error, numGoroutines)

	source := []byte(sampleTSX)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := manager.Parse(source, LanguageTypeScript, true)
			if err != nil {
				errChan <- err
				return
			}
			tree.Close()
		}()
	}
	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("parse failed: %v", err)
	}

	stats := manager.GetStats()
	assert.LessOrEqual(t, stats.ParsersCreated, util.GetOptimalPoolSize())
	assert.GreaterOrEqual(t, stats.ParsersCreated, 1)
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
}

// TestConcurrentMixedGrammars parses scripts and stylesheets at once, the
// way a repository parse does.
func TestConcurrentMixedGrammars(t *testing.T) {
	manager := newTestManager(t)

	jobs := []struct {
		path   string
		source string
	}{
		{"Button.tsx", sampleTSX},
		{"Button.module.css", sampleCSS},
		{"Card.jsx", "export const Card = () => <div />;"},
		{"util.ts", "export type Size = 'sm' | 'md';"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		job := jobs[i%len(jobs)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := manager.ParseFile([]byte(job.source), job.path)
			if assert.NoError(t, err) {
				assert.False(t, tree.RootNode().HasError(), job.path)
				tree.Close()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, manager.GetStats().ParsesCalled)
}

func BenchmarkParseTSX(b *testing.B) {
	manager := NewParserManager(util.DiscardLogger())
	defer manager.Close()
	source := []byte(sampleTSX)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tree, err := manager.Parse(source, LanguageTypeScript, true)
			if err != nil {
				b.Fatal(err)
			}
			tree.Close()
		}
	})
}
