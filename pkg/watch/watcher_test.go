package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

type fakeParser struct {
	mu          sync.Mutex
	invalidated []string
	parses      int
}

func (p *fakeParser) InvalidateRepository(root string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidated = append(p.invalidated, root)
	return true
}

func (p *fakeParser) ParseRepository(_ context.Context, root string) (*model.RepositoryModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parses++
	return &model.RepositoryModel{Root: root}, nil
}

func (p *fakeParser) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parses
}

func startWatcher(t *testing.T, root string, p Parser, onParse func(*model.RepositoryModel, error)) *Watcher {
	t.Helper()
	w, err := New(p, root, Options{Debounce: 20 * time.Millisecond, OnParse: onParse}, util.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_ReparsesOnChange(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "Button.tsx"), "export const Button = () => null")

	p := &fakeParser{}
	results := make(chan *model.RepositoryModel, 8)
	startWatcher(t, root, p, func(repo *model.RepositoryModel, err error) {
		assert.NoError(t, err)
		results <- repo
	})

	write(t, filepath.Join(root, "Button.tsx"), "export const Button = () => 1")

	select {
	case repo := <-results:
		abs, _ := filepath.Abs(root)
		assert.Equal(t, abs, repo.Root)
	case <-time.After(5 * time.Second):
		t.Fatal("no re-parse after a source change")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.invalidated, "cache invalidated before re-parse")
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	p := &fakeParser{}
	w, err := New(p, root, Options{Debounce: 300 * time.Millisecond}, util.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	for range 5 {
		write(t, filepath.Join(root, "a.css"), ".a { color: red; }")
	}

	assert.Eventually(t, func() bool { return p.count() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, p.count())
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0755))

	p := &fakeParser{}
	startWatcher(t, root, p, nil)

	write(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "module.exports = 1")
	write(t, filepath.Join(root, "notes.md"), "# notes")

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, p.count())
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	p := &fakeParser{}
	startWatcher(t, root, p, nil)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "Card"), 0755))
	assert.Eventually(t, func() bool { return p.count() >= 1 }, 5*time.Second, 10*time.Millisecond)

	// Let the directory event settle before writing inside it.
	time.Sleep(100 * time.Millisecond)
	before := p.count()
	write(t, filepath.Join(root, "src", "Card", "Card.tsx"), "export const Card = () => null")
	assert.Eventually(t, func() bool { return p.count() > before }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(&fakeParser{}, t.TempDir(), Options{}, util.DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := New(&fakeParser{}, filepath.Join(t.TempDir(), "missing"), Options{}, util.DiscardLogger())
	require.Error(t, err)
}
